// Package accounts provides HTTP handlers and business logic for platform accounts.
package accounts

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/parking-garden/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var errorMappings = []httputil.ErrorMapping{
	{Error: ErrAccountNotFound, Status: http.StatusNotFound},
	{Error: ErrUsernameExists, Status: http.StatusConflict},
	{Error: ErrInvalidRole, Status: http.StatusBadRequest},
	{Error: ErrInvalidPassword, Status: http.StatusBadRequest},
}

// Handler handles HTTP requests for the accounts module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new accounts handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers account routes (admin only).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.ListAccounts)
		r.Post("/", h.CreateAccount)
		r.Get("/{id}", h.GetAccount)
		r.Put("/{id}", h.UpdateAccount)
		r.Delete("/{id}", h.DeleteAccount)
	})

	r.Route("/users/{username}", func(r chi.Router) {
		r.Get("/", h.GetUser)
		r.Get("/role", h.GetRole)
		r.Get("/active", h.IsActive)
		r.Get("/details", h.GetUserDetails)
		r.Post("/block", h.Block)
		r.Post("/unblock", h.Unblock)
	})
}

// AccountRequest represents the request body for creating or updating an account.
type AccountRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
	Role     string `json:"role" validate:"required"`
}

// ToInput converts the request to service input.
func (r *AccountRequest) ToInput() AccountInput {
	return AccountInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

// RoleResponse is the body of GET /users/{username}/role.
type RoleResponse struct {
	Role string `json:"role"`
}

// ActiveResponse is the body of GET /users/{username}/active.
type ActiveResponse struct {
	Active bool `json:"active"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*AccountRequest, bool) {
	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return nil, false
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return nil, false
	}

	return &req, true
}

// ListAccounts handles GET /accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAccounts(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, list)
}

// CreateAccount handles POST /accounts.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusCreated, account)
}

// GetAccount handles GET /accounts/{id}.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccountByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	if account == nil {
		httputil.Error(w, http.StatusNotFound, ErrAccountNotFound.Error())
		return
	}

	httputil.Success(w, http.StatusOK, account)
}

// UpdateAccount handles PUT /accounts/{id}.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), chi.URLParam(r, "id"), req.ToInput())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, account)
}

// DeleteAccount handles DELETE /accounts/{id}.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetUser handles GET /users/{username}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccountByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	if account == nil {
		httputil.Error(w, http.StatusNotFound, ErrAccountNotFound.Error())
		return
	}

	httputil.Success(w, http.StatusOK, account)
}

// GetRole handles GET /users/{username}/role.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.GetRole(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, RoleResponse{Role: string(role)})
}

// IsActive handles GET /users/{username}/active.
func (h *Handler) IsActive(w http.ResponseWriter, r *http.Request) {
	active, err := h.service.IsActive(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	httputil.Success(w, http.StatusOK, ActiveResponse{Active: active})
}

// GetUserDetails handles GET /users/{username}/details.
func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetUserDetails(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}
	if details == nil {
		httputil.Error(w, http.StatusNotFound, ErrAccountNotFound.Error())
		return
	}

	httputil.Success(w, http.StatusOK, details)
}

// Block handles POST /users/{username}/block.
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Block(r.Context(), chi.URLParam(r, "username")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unblock handles POST /users/{username}/unblock.
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unblock(r.Context(), chi.URLParam(r, "username")); err != nil {
		httputil.HandleError(r.Context(), w, err, errorMappings)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
