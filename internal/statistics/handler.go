package statistics

import (
	"net/http"
	"strconv"

	"github.com/bissquit/parking-garden/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Query defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	DefaultLimit    = 10
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrInvalidPage, Status: http.StatusBadRequest},
	{Error: ErrInvalidPageSize, Status: http.StatusBadRequest},
	{Error: ErrInvalidLimit, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the statistics module.
type Handler struct {
	service *Service
}

// NewHandler creates a new statistics handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers statistics routes (admin only).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/statistics", func(r chi.Router) {
		r.Get("/totals", h.GetReport)
		r.Get("/users", h.ListUsers)
		r.Get("/top-slots", h.TopSlots)
		r.Get("/top-users", h.TopUsers)
		r.Get("/daily-revenue", h.DailyRevenue)
		r.Get("/daily-reserved-spots", h.DailyReservedSpots)
	})
}

// queryInt reads an integer query parameter, falling back to def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *Handler) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit, ok := queryInt(r, "limit", DefaultLimit)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "invalid limit")
	}
	return limit, ok
}

// GetReport handles GET /statistics/totals.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GetReport(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, report)
}

// ListUsers handles GET /statistics/users?page=&size=.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(r, "page", DefaultPage)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, ok := queryInt(r, "size", DefaultPageSize)
	if !ok {
		httputil.Error(w, http.StatusBadRequest, "invalid size")
		return
	}

	users, err := h.service.ListUsers(r.Context(), page, size)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}

// TopSlots handles GET /statistics/top-slots?limit=.
func (h *Handler) TopSlots(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	slots, err := h.service.TopSlots(r.Context(), limit)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, slots)
}

// TopUsers handles GET /statistics/top-users?limit=.
func (h *Handler) TopUsers(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	users, err := h.service.TopUsers(r.Context(), limit)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}

// DailyRevenue handles GET /statistics/daily-revenue?limit=.
func (h *Handler) DailyRevenue(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	days, err := h.service.DailyRevenue(r.Context(), limit)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, days)
}

// DailyReservedSpots handles GET /statistics/daily-reserved-spots?limit=.
func (h *Handler) DailyReservedSpots(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	days, err := h.service.DailyReservedSpots(r.Context(), limit)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, days)
}
