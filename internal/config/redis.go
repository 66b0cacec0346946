package config

import (
    "context"
    "crypto/tls"
    "log"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from the environment.  Redis
// backs three concerns here: the per-seat claim keys of the hold
// manager, the distributed rate limiter and the response cache.  All
// three degrade gracefully, so a failed connection returns nil instead
// of aborting startup; seat serialization then rests on the database
// alone.
//
// Recognized variables:
//
//	REDIS_URL      full redis:// or rediss:// URL (wins over the rest)
//	REDIS_ADDR     host:port
//	REDIS_HOST / REDIS_PORT
//	REDIS_PASSWORD
//	REDIS_DB       database number, default 0
//	REDIS_TLS      "true" / "1" enables TLS
func NewRedisClient() *redis.Client {
    opts, err := redisOptions()
    if err != nil {
        log.Printf("redis: bad configuration: %v", err)
        return nil
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("redis: ping %s failed: %v", opts.Addr, err)
        client.Close()
        return nil
    }
    return client
}

func redisOptions() (*redis.Options, error) {
    if url := os.Getenv("REDIS_URL"); url != "" {
        return redis.ParseURL(url)
    }

    addr := os.Getenv("REDIS_ADDR")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }

    db := 0
    if s := os.Getenv("REDIS_DB"); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            db = n
        }
    }

    opts := &redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       db,
    }
    if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
        opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
    }
    return opts, nil
}
