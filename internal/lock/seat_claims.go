package lock

import (
    "context"
    "fmt"
    "sort"
    "time"

    "github.com/redis/go-redis/v9"
)

// releaseScript deletes a claim key only when it still belongs to the
// given session, so a slow release can never drop a claim that has
// already expired and been re-taken by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the TTL of a claim key only when it still
// belongs to the given session.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SeatClaims is the Redis fast path in front of the database seat
// inventory.  One key per seat, value = holding session ID, TTL = hold
// TTL.  It exists to reject most conflicting hold attempts without a
// database transaction; the conditional updates on show_seats remain
// the source of truth when Redis is down or keys have been evicted.
type SeatClaims struct {
    rdb *redis.Client
    ttl time.Duration
}

// NewSeatClaims builds the claim layer over an existing Redis client.
func NewSeatClaims(rdb *redis.Client, ttl time.Duration) *SeatClaims {
    return &SeatClaims{rdb: rdb, ttl: ttl}
}

// Key returns the claim key for one seat of one show.
func Key(showID, seatID uint64) string {
    return fmt.Sprintf("seat_lock:%d:%d", showID, seatID)
}

// AcquireAll claims every seat for the session or none of them.  Seats
// are claimed in ascending ID order so two overlapping batches always
// collide on the same first seat instead of deadlocking against each
// other.  On conflict the claims taken so far are rolled back and the
// IDs of every seat held by another session are returned.
func (c *SeatClaims) AcquireAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) ([]uint64, error) {
    sorted := make([]uint64, len(seatIDs))
    copy(sorted, seatIDs)
    sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

    acquired := make([]uint64, 0, len(sorted))
    var conflicting []uint64
    for _, sid := range sorted {
        ok, err := c.rdb.SetNX(ctx, Key(showID, sid), sessionID, c.ttl).Result()
        if err != nil {
            c.rollback(ctx, showID, acquired, sessionID)
            return nil, err
        }
        if !ok {
            conflicting = append(conflicting, sid)
            continue
        }
        acquired = append(acquired, sid)
    }
    if len(conflicting) > 0 {
        c.rollback(ctx, showID, acquired, sessionID)
        return conflicting, nil
    }
    return nil, nil
}

// ExtendAll refreshes the TTL of the session's claims.  Keys that have
// expired or changed owner are left alone; the database hold rows
// decide whether the renew itself succeeds.
func (c *SeatClaims) ExtendAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) error {
    ms := c.ttl.Milliseconds()
    for _, sid := range seatIDs {
        if err := extendScript.Run(ctx, c.rdb, []string{Key(showID, sid)}, sessionID, ms).Err(); err != nil && err != redis.Nil {
            return err
        }
    }
    return nil
}

// ReleaseAll drops the session's claims.  Errors are returned but a
// missed delete is harmless: the TTL reclaims the key on its own.
func (c *SeatClaims) ReleaseAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) error {
    for _, sid := range seatIDs {
        if err := releaseScript.Run(ctx, c.rdb, []string{Key(showID, sid)}, sessionID).Err(); err != nil && err != redis.Nil {
            return err
        }
    }
    return nil
}

func (c *SeatClaims) rollback(ctx context.Context, showID uint64, acquired []uint64, sessionID string) {
    for _, sid := range acquired {
        _ = releaseScript.Run(ctx, c.rdb, []string{Key(showID, sid)}, sessionID).Err()
    }
}
