package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/repository"
)

// SearchShows handles GET /v1/shows/search.  Filters: q (movie
// title), theater, city, all case-insensitive substrings, and time
// ("upcoming" by default, "active" to include running shows, "any"
// for no time filter).  Results are paginated with page/page_size.
func (h *PublicHandler) SearchShows(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    if page < 1 {
        page = 1
    }
    pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }

    q := repository.ShowSearchQuery{
        Title:    c.QueryParam("q"),
        Theater:  c.QueryParam("theater"),
        City:     c.QueryParam("city"),
        Time:     c.QueryParam("time"),
        Page:     page,
        PageSize: pageSize,
    }

    items, total, err := h.Shows.Search(c.Request().Context(), q)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not search shows"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "shows":     items,
        "total":     total,
        "page":      page,
        "page_size": pageSize,
    })
}
