package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eaglebank/internal/transport/http/shared"
	"eaglebank/internal/user/models"
	"eaglebank/internal/user/service"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/requestcontext"
)

// UserService is the application-service surface this handler needs.
type UserService interface {
	Create(ctx context.Context, params service.CreateUserParams) (*models.User, error)
	Get(ctx context.Context, callerID, id domain.UserID) (*models.User, error)
	Update(ctx context.Context, callerID, id domain.UserID, params service.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, callerID, id domain.UserID) error
}

// Authenticator verifies credentials and issues tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// Handler serves the user and auth endpoints.
type Handler struct {
	logger *slog.Logger
	users  UserService
	auth   Authenticator
}

func New(users UserService, auth Authenticator, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		users:  users,
		auth:   auth,
	}
}

// RegisterPublic registers the unauthenticated routes: signup and login.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/v1/users", h.handleCreate)
	r.Post("/v1/auth/login", h.handleLogin)
}

// Register registers the authenticated user routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/users/{userID}", h.handleGet)
	r.Patch("/v1/users/{userID}", h.handleUpdate)
	r.Delete("/v1/users/{userID}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.users.Create(ctx, service.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.PhoneNumber,
		Line1:    req.Address.Line1,
		Line2:    req.Address.Line2,
		Line3:    req.Address.Line3,
		Town:     req.Address.Town,
		County:   req.Address.County,
		Postcode: req.Address.Postcode,
		Password: req.Password,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create user",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "authentication failed",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, LoginResponse{
		UserID: result.UserID.String(),
		Email:  result.Email.String(),
		Token:  result.Token,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	user, err := h.users.Get(ctx, requestcontext.UserID(ctx), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	params := service.UpdateUserParams{
		Name:  req.Name,
		Phone: req.PhoneNumber,
	}
	if req.Address != nil {
		params.Line1 = req.Address.Line1
		params.Line2 = req.Address.Line2
		params.Line3 = req.Address.Line3
		params.Town = req.Address.Town
		params.County = req.Address.County
		params.Postcode = req.Address.Postcode
	}

	user, err := h.users.Update(ctx, requestcontext.UserID(ctx), id, params)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.users.Delete(ctx, requestcontext.UserID(ctx), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Name:        user.Name,
		Email:       user.Email.String(),
		PhoneNumber: user.PhoneNumber.String(),
		Address: AddressPayload{
			Line1:    user.Address.Line1,
			Line2:    user.Address.Line2,
			Line3:    user.Address.Line3,
			Town:     user.Address.Town,
			County:   user.Address.County,
			Postcode: user.Address.Postcode,
		},
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
