package service

import (
    "context"
    "log"
    "time"
)

// Sweeper reclaims lapsed holds in the background.  Clients are told
// their deadline but the server enforces it: the sweeper, not the
// browser, frees seats whose holds ran out.  Every mutation it makes
// runs through ExpireHolds, which compares recorded expiries inside a
// transaction, so it can never race a concurrent renew or confirm into
// freeing a live hold.
type Sweeper struct {
    inv      InventoryStore
    claims   SeatClaimer // may be nil
    interval time.Duration
    now      func() time.Time
}

// NewSweeper builds a sweeper ticking at the given interval.
func NewSweeper(inv InventoryStore, claims SeatClaimer, interval time.Duration) *Sweeper {
    return &Sweeper{inv: inv, claims: claims, interval: interval, now: time.Now}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
// Started as a goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            s.sweep(ctx)
        }
    }
}

func (s *Sweeper) sweep(ctx context.Context) {
    expired, err := s.inv.ExpireHolds(ctx, s.now().UTC())
    if err != nil {
        log.Printf("sweeper: expire holds failed: %v", err)
        return
    }
    if len(expired) == 0 {
        return
    }

    // Group the reclaimed holds per session so the matching Redis
    // claims can be dropped.  The claim TTL would reclaim them anyway;
    // this just keeps the fast path in step with the database.
    type key struct {
        sessionID string
        showID    uint64
    }
    bySession := make(map[key][]uint64)
    for _, h := range expired {
        k := key{sessionID: h.SessionID, showID: h.ShowID}
        bySession[k] = append(bySession[k], h.SeatID)
    }
    if s.claims != nil {
        for k, seatIDs := range bySession {
            _ = s.claims.ReleaseAll(ctx, k.showID, seatIDs, k.sessionID)
        }
    }
    log.Printf("sweeper: reclaimed %d expired holds across %d sessions", len(expired), len(bySession))
}
