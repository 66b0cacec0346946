package middleware

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the identifier JWTAuth stored in the context,
// or "anon" for unauthenticated requests.  The sub claim arrives as
// whatever type the JWT library decoded, usually float64, so the value
// is formatted rather than type-asserted.  Rate-limit keys use this to
// bucket per user instead of per IP once a token is present.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch id := v.(type) {
    case string:
        if id != "" {
            return id
        }
    case float64:
        return fmt.Sprintf("%.0f", id)
    case uint64, int64, int:
        return fmt.Sprintf("%d", id)
    }
    return "anon"
}
