package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/config"
    "github.com/bookmyseat/seat-reservation/internal/database"
    "github.com/bookmyseat/seat-reservation/internal/handler"
    "github.com/bookmyseat/seat-reservation/internal/lock"
    "github.com/bookmyseat/seat-reservation/internal/middleware"
    "github.com/bookmyseat/seat-reservation/internal/payment"
    "github.com/bookmyseat/seat-reservation/internal/queue"
    "github.com/bookmyseat/seat-reservation/internal/repository"
    "github.com/bookmyseat/seat-reservation/internal/router"
    "github.com/bookmyseat/seat-reservation/internal/service"
)

func main() {
    // Load .env when present; real deployments rely on the process
    // environment instead.
    if err := godotenv.Load(); err != nil {
        log.Println("no .env file found, using OS environment")
    }

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    defer db.Close()

    // Redis is optional.  Without it the hold path skips the claim
    // fast-path and the cache / rate-limit middleware disable
    // themselves; the database stays authoritative either way.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, running without seat claims, cache and rate limiting")
    }

    // Keep claims typed as the interface so a missing Redis client
    // stays a plain nil; assigning a nil *SeatClaims would make the
    // interface non-nil and defeat the nil checks in the services.
    var claims service.SeatClaimer
    if rdb != nil {
        claims = lock.NewSeatClaims(rdb, cfg.HoldTTL)
    }

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    theaters := repository.NewTheaterRepo(db)
    screens := repository.NewScreenRepo(db)
    seats := repository.NewSeatRepo(db)
    shows := repository.NewShowRepo(db)
    showSeats := repository.NewShowSeatRepo(db)
    payments := repository.NewPaymentRepo(db)
    inventory := repository.NewInventory(db)
    composer := repository.NewEventComposer(db)

    pricing := service.PricingConfig{
        ConvenienceFeePercent:  cfg.ConvenienceFeePercent,
        MinConvenienceFeeCents: cfg.MinConvenienceFeeCents,
        TaxPercent:             cfg.TaxPercent,
    }

    holdSvc := service.NewHoldService(inventory, shows, claims, cfg.HoldTTL, cfg.MaxSeatsPerSession)
    paymentSvc := service.NewPaymentService(payments, inventory, claims, payment.NewMockGateway(), pricing)
    reservationSvc := service.NewReservationService(inventory, payments, claims, composer, service.PublishBookingConfirmed)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    publicH := handler.NewPublicHandler(theaters, screens, seats, shows, showSeats, inventory)
    adminH := handler.NewAdminHandler(theaters, screens, seats, shows, showSeats)
    locksH := handler.NewSeatLockHandler(holdSvc, reservationSvc)
    paymentsH := handler.NewPaymentHandler(paymentSvc)
    bookingsH := handler.NewBookingHandler(repository.NewBookingRepo(db), shows, seats, inventory, paymentSvc)

    // Background workers share a context cancelled on shutdown.
    workerCtx, stopWorkers := context.WithCancel(context.Background())
    defer stopWorkers()

    sweeper := service.NewSweeper(inventory, claims, cfg.SweepInterval)
    go sweeper.Run(workerCtx)

    go func() {
        if err := queue.StartBookingConsumer(workerCtx); err != nil && err != context.Canceled {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    router.RegisterCustomer(e, locksH, paymentsH, bookingsH, cfg.JWTSecret)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    addr := ":" + cfg.Port
    go func() {
        log.Printf("listening on %s (env=%s)", addr, cfg.Env)
        if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server startup failed: %v", err)
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    log.Println("shutting down")

    stopWorkers()
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        log.Fatalf("forced shutdown: %v", err)
    }
}
