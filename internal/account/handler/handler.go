package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eaglebank/internal/account/models"
	"eaglebank/internal/transport/http/shared"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/requestcontext"
)

// Service is the application-service surface this handler needs.
type Service interface {
	Create(ctx context.Context, ownerID domain.UserID, name string, accountType models.AccountType) (*models.Account, error)
	Get(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error)
	List(ctx context.Context, callerID domain.UserID) ([]*models.Account, error)
	UpdateName(ctx context.Context, callerID domain.UserID, number domain.AccountNumber, name string) (*models.Account, error)
	Suspend(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error)
	Activate(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error)
	Close(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) error
}

// Handler serves the account endpoints. All routes require authentication.
type Handler struct {
	logger   *slog.Logger
	accounts Service
}

func New(accounts Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		accounts: accounts,
	}
}

// Register registers the account routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/accounts", h.handleCreate)
	r.Get("/v1/accounts", h.handleList)
	r.Get("/v1/accounts/{accountNumber}", h.handleGet)
	r.Patch("/v1/accounts/{accountNumber}", h.handleUpdate)
	r.Delete("/v1/accounts/{accountNumber}", h.handleClose)
	r.Post("/v1/accounts/{accountNumber}/suspend", h.handleSuspend)
	r.Post("/v1/accounts/{accountNumber}/activate", h.handleActivate)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	account, err := h.accounts.Create(ctx, requestcontext.UserID(ctx), req.Name, models.AccountType(req.AccountType))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create account",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.accounts.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := ListAccountsResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, account := range accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(account))
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	account, err := h.accounts.Get(ctx, requestcontext.UserID(ctx), number)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	account, err := h.accounts.UpdateName(ctx, requestcontext.UserID(ctx), number, req.Name)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.accounts.Close(ctx, requestcontext.UserID(ctx), number); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.accounts.Suspend)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.accounts.Activate)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error),
) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	account, err := apply(ctx, requestcontext.UserID(ctx), number)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

func toAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: account.AccountNumber.String(),
		SortCode:      account.SortCode.String(),
		Name:          account.Name,
		AccountType:   string(account.Type),
		Status:        string(account.Status),
		Balance:       account.Balance.Amount().StringFixed(2),
		Currency:      account.Balance.Currency(),
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}
