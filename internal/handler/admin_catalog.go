package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage the
// catalog: theaters, screens, seats and the show schedule.
type AdminHandler struct {
    Theaters  *repository.TheaterRepo
    Screens   *repository.ScreenRepo
    Seats     *repository.SeatRepo
    Shows     *repository.ShowRepo
    ShowSeats *repository.ShowSeatRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(theaters *repository.TheaterRepo, screens *repository.ScreenRepo, seats *repository.SeatRepo, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo) *AdminHandler {
    if theaters == nil || screens == nil || seats == nil || shows == nil || showSeats == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{Theaters: theaters, Screens: screens, Seats: seats, Shows: shows, ShowSeats: showSeats}
}

// CreateTheater handles POST /v1/theaters.
func (h *AdminHandler) CreateTheater(c echo.Context) error {
    var body struct {
        Name    string  `json:"name"`
        City    string  `json:"city"`
        Address *string `json:"address"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    city := strings.TrimSpace(body.City)
    if name == "" || city == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
    }

    t := &model.Theater{Name: name, City: city, Address: body.Address}
    if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "theater already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create theater"})
    }
    return c.JSON(http.StatusCreated, t)
}

// rowLabel converts a zero-based row index into a spreadsheet-style
// label: A..Z, then AA, AB, ...
func rowLabel(i uint32) string {
    label := ""
    n := int(i)
    for {
        label = string(rune('A'+n%26)) + label
        n = n/26 - 1
        if n < 0 {
            break
        }
    }
    return label
}

// categoryForRow assigns a pricing tier by position: the last row is
// RECLINER, the back third (minus the last row) PREMIUM, the rest
// STANDARD.
func categoryForRow(row, totalRows uint32) string {
    if totalRows > 1 && row == totalRows-1 {
        return model.SeatCategoryRecliner
    }
    if totalRows >= 3 && row >= totalRows-totalRows/3 {
        return model.SeatCategoryPremium
    }
    return model.SeatCategoryStandard
}

// CreateScreen handles POST /v1/theaters/:id/screens.  The seat grid
// is generated immediately from rows x cols.
func (h *AdminHandler) CreateScreen(c echo.Context) error {
    theaterID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
    }
    var body struct {
        Name     string `json:"name"`
        SeatRows uint32 `json:"seat_rows"`
        SeatCols uint32 `json:"seat_cols"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if body.SeatRows == 0 || body.SeatCols == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_rows and seat_cols must be positive"})
    }
    if body.SeatRows > 100 || body.SeatCols > 100 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat grid too large"})
    }
    ctx := c.Request().Context()

    if _, err := h.Theaters.GetByID(ctx, theaterID); err != nil {
        if err == repository.ErrTheaterNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not verify theater"})
    }

    screen := &model.Screen{TheaterID: theaterID, Name: name, SeatRows: body.SeatRows, SeatCols: body.SeatCols, IsActive: true}
    if err := h.Screens.Create(ctx, screen); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "screen name already taken in this theater"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create screen"})
    }

    seats := make([]model.Seat, 0, body.SeatRows*body.SeatCols)
    for row := uint32(0); row < body.SeatRows; row++ {
        for col := uint32(1); col <= body.SeatCols; col++ {
            seats = append(seats, model.Seat{
                ScreenID:   screen.ID,
                RowLabel:   rowLabel(row),
                SeatNumber: col,
                Category:   categoryForRow(row, body.SeatRows),
            })
        }
    }
    if err := h.Seats.CreateBulk(ctx, seats); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seats"})
    }

    return c.JSON(http.StatusCreated, echo.Map{"screen": screen, "seats_created": len(seats)})
}

// CreateSeats handles POST /v1/screens/:id/seats for adding custom
// seats beyond the generated grid.
func (h *AdminHandler) CreateSeats(c echo.Context) error {
    screenID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
    }
    var body struct {
        Seats []struct {
            RowLabel   string `json:"row_label"`
            SeatNumber uint32 `json:"seat_number"`
            Category   string `json:"category"`
        } `json:"seats"`
    }
    if err := c.Bind(&body); err != nil || len(body.Seats) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
    }
    ctx := c.Request().Context()

    if _, err := h.Screens.GetByID(ctx, screenID); err != nil {
        if err == repository.ErrScreenNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not verify screen"})
    }

    seats := make([]model.Seat, 0, len(body.Seats))
    for _, s := range body.Seats {
        row := strings.ToUpper(strings.TrimSpace(s.RowLabel))
        cat := strings.ToUpper(strings.TrimSpace(s.Category))
        if row == "" || s.SeatNumber == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "row_label and seat_number are required"})
        }
        if _, ok := model.CategoryMultiplierPercent[cat]; !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be STANDARD, PREMIUM or RECLINER"})
        }
        seats = append(seats, model.Seat{ScreenID: screenID, RowLabel: row, SeatNumber: s.SeatNumber, Category: cat})
    }
    if err := h.Seats.CreateBulk(ctx, seats); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seats"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"seats_created": len(seats)})
}

// ScheduleShow handles POST /v1/shows.  Inside one transaction it
// checks the screen for overlapping shows, creates the show, and
// generates a show_seat row for every active seat with the price
// derived from the seat category.
func (h *AdminHandler) ScheduleShow(c echo.Context) error {
    var body struct {
        ScreenID       uint64 `json:"screen_id"`
        MovieTitle     string `json:"movie_title"`
        StartsAt       string `json:"starts_at"`
        EndsAt         string `json:"ends_at"`
        BasePriceCents uint32 `json:"base_price_cents"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    title := strings.TrimSpace(body.MovieTitle)
    if body.ScreenID == 0 || title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen_id and movie_title are required"})
    }
    if body.BasePriceCents == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_cents must be positive"})
    }
    startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartsAt))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
    }
    endsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.EndsAt))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at format"})
    }
    if !endsAt.After(startsAt) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
    }
    ctx := c.Request().Context()

    if _, err := h.Screens.GetByID(ctx, body.ScreenID); err != nil {
        if err == repository.ErrScreenNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not verify screen"})
    }
    seats, err := h.Seats.ListActiveByScreen(ctx, body.ScreenID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load seats"})
    }
    if len(seats) == 0 {
        return c.JSON(http.StatusConflict, echo.Map{"error": "screen has no active seats"})
    }

    tx, err := h.Shows.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    overlaps, err := h.Shows.CountOverlappingTx(ctx, tx, body.ScreenID, startsAt.UTC(), endsAt.UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check schedule"})
    }
    if overlaps > 0 {
        return c.JSON(http.StatusConflict, echo.Map{"error": "show time overlaps an existing show on this screen"})
    }

    show := &model.Show{
        ScreenID:       body.ScreenID,
        MovieTitle:     title,
        StartsAt:       startsAt.UTC(),
        EndsAt:         endsAt.UTC(),
        BasePriceCents: body.BasePriceCents,
        Status:         model.ShowStatusScheduled,
    }
    if err := h.Shows.CreateTx(ctx, tx, show); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show"})
    }

    ss := make([]model.ShowSeat, 0, len(seats))
    for _, seat := range seats {
        price := body.BasePriceCents * model.CategoryMultiplierPercent[seat.Category] / 100
        ss = append(ss, model.ShowSeat{
            ShowID:     show.ID,
            SeatID:     seat.ID,
            Status:     model.SeatStateFree,
            PriceCents: price,
        })
    }
    if err := h.ShowSeats.CreateBulkTx(ctx, tx, ss); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show seats"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit show"})
    }
    committed = true

    return c.JSON(http.StatusCreated, echo.Map{"show": show, "seats_created": len(ss)})
}

// CancelShow handles POST /v1/shows/:id/cancel.  Only a SCHEDULED
// show can be cancelled; its seat availability rows are removed so
// nothing further can be held or sold.
func (h *AdminHandler) CancelShow(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    ctx := c.Request().Context()

    tx, err := h.Shows.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := h.Shows.TransitionStatusTx(ctx, tx, id, model.ShowStatusScheduled, model.ShowStatusCancelled); err != nil {
        switch err {
        case repository.ErrShowNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        case repository.ErrConflict:
            return c.JSON(http.StatusConflict, echo.Map{"error": "show is not scheduled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel show"})
    }
    if err := h.ShowSeats.DeleteByShowTx(ctx, tx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not remove show seats"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit"})
    }
    committed = true

    return c.JSON(http.StatusOK, echo.Map{"message": "show cancelled"})
}

// ArchiveShow handles DELETE /v1/shows/:id.  The show is marked
// ARCHIVED and its seat availability rows are removed so it vanishes
// from sale.
func (h *AdminHandler) ArchiveShow(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    ctx := c.Request().Context()

    tx, err := h.Shows.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := h.Shows.UpdateStatusTx(ctx, tx, id, model.ShowStatusArchived); err != nil {
        if err == repository.ErrShowNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not archive show"})
    }
    if err := h.ShowSeats.DeleteByShowTx(ctx, tx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not remove show seats"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit"})
    }
    committed = true

    return c.JSON(http.StatusOK, echo.Map{"message": "show archived"})
}
