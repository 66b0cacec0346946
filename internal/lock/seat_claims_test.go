package lock

import (
    "context"
    "testing"
    "time"

    "github.com/go-redis/redismock/v9"
    "github.com/stretchr/testify/assert"
)

func TestAcquireAll_ClaimsEverySeat(t *testing.T) {
    db, mockRedis := redismock.NewClientMock()
    claims := NewSeatClaims(db, 10*time.Minute)

    ctx := context.Background()
    sessionID := "b9a7c2de-1111-4222-8333-abcdefabcdef"

    mockRedis.ExpectSetNX("seat_lock:7:3", sessionID, 10*time.Minute).SetVal(true)
    mockRedis.ExpectSetNX("seat_lock:7:5", sessionID, 10*time.Minute).SetVal(true)
    mockRedis.ExpectSetNX("seat_lock:7:9", sessionID, 10*time.Minute).SetVal(true)

    conflicting, err := claims.AcquireAll(ctx, 7, []uint64{9, 3, 5}, sessionID)

    assert.NoError(t, err)
    assert.Empty(t, conflicting)

    if err := mockRedis.ExpectationsWereMet(); err != nil {
        t.Errorf("there were unfulfilled expectations: %s", err)
    }
}

func TestAcquireAll_ConflictRollsBackAcquiredClaims(t *testing.T) {
    db, mockRedis := redismock.NewClientMock()
    claims := NewSeatClaims(db, 10*time.Minute)

    ctx := context.Background()
    sessionID := "b9a7c2de-1111-4222-8333-abcdefabcdef"

    mockRedis.ExpectSetNX("seat_lock:7:3", sessionID, 10*time.Minute).SetVal(true)
    mockRedis.ExpectSetNX("seat_lock:7:5", sessionID, 10*time.Minute).SetVal(false)
    mockRedis.ExpectSetNX("seat_lock:7:9", sessionID, 10*time.Minute).SetVal(true)
    mockRedis.ExpectEvalSha(releaseScript.Hash(), []string{"seat_lock:7:3"}, sessionID).SetVal(int64(1))
    mockRedis.ExpectEvalSha(releaseScript.Hash(), []string{"seat_lock:7:9"}, sessionID).SetVal(int64(1))

    conflicting, err := claims.AcquireAll(ctx, 7, []uint64{3, 5, 9}, sessionID)

    assert.NoError(t, err)
    assert.Equal(t, []uint64{5}, conflicting)

    if err := mockRedis.ExpectationsWereMet(); err != nil {
        t.Errorf("there were unfulfilled expectations: %s", err)
    }
}

func TestReleaseAll_OnlyDeletesOwnClaims(t *testing.T) {
    db, mockRedis := redismock.NewClientMock()
    claims := NewSeatClaims(db, 10*time.Minute)

    ctx := context.Background()
    sessionID := "b9a7c2de-1111-4222-8333-abcdefabcdef"

    mockRedis.ExpectEvalSha(releaseScript.Hash(), []string{"seat_lock:7:3"}, sessionID).SetVal(int64(1))
    mockRedis.ExpectEvalSha(releaseScript.Hash(), []string{"seat_lock:7:5"}, sessionID).SetVal(int64(0))

    err := claims.ReleaseAll(ctx, 7, []uint64{3, 5}, sessionID)

    assert.NoError(t, err)

    if err := mockRedis.ExpectationsWereMet(); err != nil {
        t.Errorf("there were unfulfilled expectations: %s", err)
    }
}

func TestExtendAll_RefreshesTTLPerSeat(t *testing.T) {
    db, mockRedis := redismock.NewClientMock()
    claims := NewSeatClaims(db, 10*time.Minute)

    ctx := context.Background()
    sessionID := "b9a7c2de-1111-4222-8333-abcdefabcdef"
    ms := (10 * time.Minute).Milliseconds()

    mockRedis.ExpectEvalSha(extendScript.Hash(), []string{"seat_lock:7:3"}, sessionID, ms).SetVal(int64(1))
    mockRedis.ExpectEvalSha(extendScript.Hash(), []string{"seat_lock:7:5"}, sessionID, ms).SetVal(int64(1))

    err := claims.ExtendAll(ctx, 7, []uint64{3, 5}, sessionID)

    assert.NoError(t, err)

    if err := mockRedis.ExpectationsWereMet(); err != nil {
        t.Errorf("there were unfulfilled expectations: %s", err)
    }
}
