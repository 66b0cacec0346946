package handler

import (
    "net/http"
    "sort"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption; live seat maps come straight from the authoritative
// show_seats table.
type PublicHandler struct {
    Theaters  *repository.TheaterRepo
    Screens   *repository.ScreenRepo
    Seats     *repository.SeatRepo
    Shows     *repository.ShowRepo
    ShowSeats *repository.ShowSeatRepo
    Inventory *repository.Inventory
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(theaters *repository.TheaterRepo, screens *repository.ScreenRepo, seats *repository.SeatRepo, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo, inv *repository.Inventory) *PublicHandler {
    if theaters == nil || screens == nil || seats == nil || shows == nil || showSeats == nil || inv == nil {
        panic("nil repository passed to NewPublicHandler")
    }
    return &PublicHandler{Theaters: theaters, Screens: screens, Seats: seats, Shows: shows, ShowSeats: showSeats, Inventory: inv}
}

// PublicTheater is a theater exposed via the public API.
type PublicTheater struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
    City string `json:"city"`
}

// PublicScreen is a screen exposed via the public API.
type PublicScreen struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    SeatRows uint32 `json:"seat_rows"`
    SeatCols uint32 `json:"seat_cols"`
}

// PublicShow is a show in list responses.
type PublicShow struct {
    ID             uint64    `json:"id"`
    MovieTitle     string    `json:"movie_title"`
    StartsAt       time.Time `json:"starts_at"`
    EndsAt         time.Time `json:"ends_at"`
    BasePriceCents uint32    `json:"base_price_cents"`
    Status         string    `json:"status"`
}

// PublicSeat is one entry of a live seat map.
type PublicSeat struct {
    SeatID     uint64 `json:"seat_id"`
    Label      string `json:"label"`
    Category   string `json:"category"`
    Status     string `json:"status"`
    PriceCents uint32 `json:"price_cents"`
}

// ListTheaters handles GET /v1/theaters.
func (h *PublicHandler) ListTheaters(c echo.Context) error {
    theaters, err := h.Theaters.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list theaters"})
    }
    out := make([]PublicTheater, 0, len(theaters))
    for _, t := range theaters {
        out = append(out, PublicTheater{ID: t.ID, Name: t.Name, City: t.City})
    }
    return c.JSON(http.StatusOK, echo.Map{"theaters": out})
}

// ListScreens handles GET /v1/theaters/:id/screens.
func (h *PublicHandler) ListScreens(c echo.Context) error {
    theaterID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
    }
    ctx := c.Request().Context()

    if _, err := h.Theaters.GetByID(ctx, theaterID); err != nil {
        if err == repository.ErrTheaterNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load theater"})
    }
    screens, err := h.Screens.ListByTheater(ctx, theaterID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list screens"})
    }
    out := make([]PublicScreen, 0, len(screens))
    for _, s := range screens {
        if !s.IsActive {
            continue
        }
        out = append(out, PublicScreen{ID: s.ID, Name: s.Name, SeatRows: s.SeatRows, SeatCols: s.SeatCols})
    }
    return c.JSON(http.StatusOK, echo.Map{"screens": out})
}

// ListShows handles GET /v1/screens/:id/shows and returns only shows
// still open for sale.
func (h *PublicHandler) ListShows(c echo.Context) error {
    screenID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
    }
    ctx := c.Request().Context()

    if _, err := h.Screens.GetByID(ctx, screenID); err != nil {
        if err == repository.ErrScreenNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load screen"})
    }
    shows, err := h.Shows.ListByScreen(ctx, screenID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list shows"})
    }
    out := make([]PublicShow, 0, len(shows))
    for _, s := range shows {
        out = append(out, PublicShow{
            ID:             s.ID,
            MovieTitle:     s.MovieTitle,
            StartsAt:       s.StartsAt,
            EndsAt:         s.EndsAt,
            BasePriceCents: s.BasePriceCents,
            Status:         s.Status,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

// GetShow handles GET /v1/shows/:id.
func (h *PublicHandler) GetShow(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    ctx := c.Request().Context()

    show, err := h.Shows.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrShowNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load show"})
    }
    screen, err := h.Screens.GetByID(ctx, show.ScreenID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load screen"})
    }
    theater, err := h.Theaters.GetByID(ctx, screen.TheaterID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load theater"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "show": PublicShow{
            ID:             show.ID,
            MovieTitle:     show.MovieTitle,
            StartsAt:       show.StartsAt,
            EndsAt:         show.EndsAt,
            BasePriceCents: show.BasePriceCents,
            Status:         show.Status,
        },
        "screen":  PublicScreen{ID: screen.ID, Name: screen.Name, SeatRows: screen.SeatRows, SeatCols: screen.SeatCols},
        "theater": PublicTheater{ID: theater.ID, Name: theater.Name, City: theater.City},
    })
}

// SeatMap handles GET /v1/shows/:id/seats.  Each seat carries its
// label, category, live status, and price.  The response passes
// through the Redis response cache with a short TTL, so a seat may
// appear FREE for a few seconds after someone grabs it; the lock
// endpoint is what decides.
func (h *PublicHandler) SeatMap(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    ctx := c.Request().Context()

    show, err := h.Shows.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrShowNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load show"})
    }
    showSeats, err := h.ShowSeats.ListByShow(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load seat map"})
    }
    seats, err := h.Seats.ListActiveByScreen(ctx, show.ScreenID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load seats"})
    }

    byID := make(map[uint64]int, len(seats))
    for i, s := range seats {
        byID[s.ID] = i
    }
    out := make([]PublicSeat, 0, len(showSeats))
    for _, ss := range showSeats {
        idx, ok := byID[ss.SeatID]
        if !ok {
            continue
        }
        seat := seats[idx]
        out = append(out, PublicSeat{
            SeatID:     ss.SeatID,
            Label:      seat.Label(),
            Category:   seat.Category,
            Status:     ss.Status,
            PriceCents: ss.PriceCents,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"show_id": id, "seats": out})
}

// Availability handles GET /v1/shows/:id/availability.  It groups the
// show's seats by state, a cheaper answer than the full seat map when
// a client only wants to know what is still free.
func (h *PublicHandler) Availability(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }

    states, err := h.Inventory.SeatStates(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load availability"})
    }
    if len(states) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
    }

    grouped := map[string][]uint64{
        model.SeatStateFree:     {},
        model.SeatStateHeld:     {},
        model.SeatStateReserved: {},
    }
    for seatID, st := range states {
        grouped[st] = append(grouped[st], seatID)
    }
    for _, ids := range grouped {
        sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "show_id":  id,
        "free":     grouped[model.SeatStateFree],
        "held":     grouped[model.SeatStateHeld],
        "reserved": grouped[model.SeatStateReserved],
    })
}
