package service

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/repository"
)

// HoldResult is what a successful hold acquisition hands back to the
// handler: the session that now owns the seats and its deadline.
type HoldResult struct {
    SessionID string
    ShowID    uint64
    SeatIDs   []uint64
    ExpiresAt time.Time
}

// HoldService owns the hold lifecycle: acquire a batch of seats under
// a fresh session, renew or release the session, and report how long
// it has left.  The Redis claim layer screens out most conflicts
// before the database transaction runs; the database remains the
// authority either way.
type HoldService struct {
    inv     InventoryStore
    shows   ShowCatalog
    claims  SeatClaimer // may be nil when Redis is unavailable
    ttl     time.Duration
    maxSeat int
    now     func() time.Time
}

// NewHoldService wires the hold lifecycle over the inventory store.
func NewHoldService(inv InventoryStore, shows ShowCatalog, claims SeatClaimer, ttl time.Duration, maxSeats int) *HoldService {
    return &HoldService{inv: inv, shows: shows, claims: claims, ttl: ttl, maxSeat: maxSeats, now: time.Now}
}

// Acquire takes every requested seat for a new session or none of
// them.  The show must exist and still be on sale;
// repository.ErrShowNotFound covers both.  Conflicting seat IDs come
// back alongside repository.ErrSeatConflict so the handler can tell
// the client which seats blocked the batch.
func (s *HoldService) Acquire(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*HoldResult, []uint64, error) {
    if len(seatIDs) == 0 {
        return nil, nil, errors.New("no seats requested")
    }
    if len(seatIDs) > s.maxSeat {
        return nil, nil, repository.ErrTooManySeats
    }
    seen := make(map[uint64]struct{}, len(seatIDs))
    for _, sid := range seatIDs {
        if _, dup := seen[sid]; dup {
            return nil, nil, errors.New("duplicate seat in request")
        }
        seen[sid] = struct{}{}
    }

    show, err := s.shows.GetByID(ctx, showID)
    if err != nil {
        return nil, nil, err
    }
    if !model.ShowOnSale(show.Status) {
        // Off-sale shows are indistinguishable from deleted ones as
        // far as customers are concerned.
        return nil, nil, repository.ErrShowNotFound
    }

    sessionID := uuid.NewString()
    expiresAt := s.now().UTC().Add(s.ttl)

    if s.claims != nil {
        conflicting, err := s.claims.AcquireAll(ctx, showID, seatIDs, sessionID)
        if err != nil {
            // Redis being down must not block sales; fall through to
            // the database transaction.
            log.Printf("seat-claims: acquire failed, falling back to db: %v", err)
        } else if len(conflicting) > 0 {
            return nil, conflicting, repository.ErrSeatConflict
        }
    }

    conflicting, err := s.inv.HoldSeats(ctx, userID, showID, seatIDs, sessionID, expiresAt)
    if err != nil {
        if s.claims != nil {
            _ = s.claims.ReleaseAll(ctx, showID, seatIDs, sessionID)
        }
        return nil, conflicting, err
    }

    return &HoldResult{
        SessionID: sessionID,
        ShowID:    showID,
        SeatIDs:   seatIDs,
        ExpiresAt: expiresAt,
    }, nil, nil
}

// Renew pushes the session's deadline out by a full TTL from now.
// Expired or unknown sessions get repository.ErrHoldExpired.
func (s *HoldService) Renew(ctx context.Context, sessionID string) (time.Time, error) {
    now := s.now().UTC()
    newExpiry := now.Add(s.ttl)
    if err := s.inv.RenewSession(ctx, sessionID, newExpiry, now); err != nil {
        return time.Time{}, err
    }
    if s.claims != nil {
        holds, err := s.inv.SessionHolds(ctx, sessionID, now)
        if err == nil && len(holds) > 0 {
            seatIDs := make([]uint64, 0, len(holds))
            for _, h := range holds {
                seatIDs = append(seatIDs, h.SeatID)
            }
            _ = s.claims.ExtendAll(ctx, holds[0].ShowID, seatIDs, sessionID)
        }
    }
    return newExpiry, nil
}

// Release gives the session's seats back.  It reports how many seats
// were freed; zero is fine, the sweeper may have beaten us to it.
func (s *HoldService) Release(ctx context.Context, sessionID string) (int, error) {
    showID, seatIDs, err := s.inv.ReleaseSession(ctx, sessionID)
    if err != nil {
        return 0, err
    }
    if s.claims != nil && len(seatIDs) > 0 {
        _ = s.claims.ReleaseAll(ctx, showID, seatIDs, sessionID)
    }
    return len(seatIDs), nil
}

// Remaining reports whole seconds until the session expires.  Zero
// with repository.ErrHoldExpired means the session has no live holds.
func (s *HoldService) Remaining(ctx context.Context, sessionID string) (int64, error) {
    now := s.now().UTC()
    holds, err := s.inv.SessionHolds(ctx, sessionID, now)
    if err != nil {
        return 0, err
    }
    if len(holds) == 0 {
        return 0, repository.ErrHoldExpired
    }
    secs := int64(holds[0].ExpiresAt.Sub(now).Seconds())
    if secs < 0 {
        secs = 0
    }
    return secs, nil
}
