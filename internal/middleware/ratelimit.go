package middleware

import (
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/bookmyseat/seat-reservation/internal/config"
)

// bucketScript takes one token from a per-key bucket, refilling lazily
// from the elapsed time since the last refill.  Returns {allowed,
// remaining, retry_after_ms}.  Runs in Redis so concurrent requests
// across instances share one bucket.
var bucketScript = redis.NewScript(`
    local now = tonumber(ARGV[1])
    local cap = tonumber(ARGV[2])
    local refill = tonumber(ARGV[3])
    local interval = tonumber(ARGV[4])
    local ttl = tonumber(ARGV[5])

    local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last = tonumber(state[2])
    if tokens == nil or last == nil then
        tokens = cap
        last = now
    end

    if interval > 0 and refill > 0 then
        local steps = math.floor(math.max(0, now - last) / interval)
        if steps > 0 then
            tokens = math.min(cap, tokens + steps * refill)
            last = last + steps * interval
        end
    end

    local allowed = 0
    local retry = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry = math.max(0, interval - (now - last))
    end

    redis.call('HMSET', KEYS[1], 'tokens', tokens, 'last_refill_ms', last)
    redis.call('EXPIRE', KEYS[1], ttl)
    return { allowed, tokens, retry }
`)

// NewTokenBucket rate-limits requests with a Redis-backed token
// bucket.  A disabled config or missing Redis client makes it a
// pass-through, and Redis errors fail open: losing the limiter must
// never take the booking flow down with it.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg, c)
            ctx := c.Request().Context()

            res, err := bucketScript.Run(ctx, rdb, []string{key},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: script failed for %s: %v", key, err)
                }
                return next(c)
            }
            allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }

            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000.0))
                h.Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

// rateKey builds the bucket key per the configured strategy.  The
// default buckets by ip, user and route together so one hot seat map
// cannot starve unrelated endpoints.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    uid := currentUserID(c)
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}
