package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eaglebank/internal/transaction/models"
	"eaglebank/internal/transport/http/shared"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/requestcontext"
)

// Service is the application-service surface this handler needs.
type Service interface {
	Deposit(ctx context.Context, callerID domain.UserID, number domain.AccountNumber, amount domain.Money, reference domain.TransactionReference) (*models.Transaction, error)
	Withdraw(ctx context.Context, callerID domain.UserID, number domain.AccountNumber, amount domain.Money, reference domain.TransactionReference) (*models.Transaction, error)
	Get(ctx context.Context, callerID domain.UserID, number domain.AccountNumber, id domain.TransactionID) (*models.Transaction, error)
	List(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) ([]*models.Transaction, error)
}

// Handler serves the transaction endpoints. All routes require
// authentication; the create route additionally sits behind the idempotency
// middleware.
type Handler struct {
	logger       *slog.Logger
	transactions Service
	idempotency  func(http.Handler) http.Handler
}

func New(transactions Service, idempotency func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		transactions: transactions,
		idempotency:  idempotency,
	}
}

// Register registers the transaction routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	create := http.Handler(http.HandlerFunc(h.handleCreate))
	if h.idempotency != nil {
		create = h.idempotency(create)
	}
	r.Method(http.MethodPost, "/v1/accounts/{accountNumber}/transactions", create)
	r.Get("/v1/accounts/{accountNumber}/transactions", h.handleList)
	r.Get("/v1/accounts/{accountNumber}/transactions/{transactionID}", h.handleGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	amount, err := domain.NewMoney(req.Amount, currency)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	reference, err := domain.ParseTransactionReference(req.Reference)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	callerID := requestcontext.UserID(ctx)
	var entry *models.Transaction
	switch models.TransactionType(req.Type) {
	case models.TransactionTypeDeposit:
		entry, err = h.transactions.Deposit(ctx, callerID, number, amount, reference)
	case models.TransactionTypeWithdrawal:
		entry, err = h.transactions.Withdraw(ctx, callerID, number, amount, reference)
	default:
		shared.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid transaction type: %q", req.Type))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "transaction rejected",
			"error", err.Error(),
			"account_number", number.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, toTransactionResponse(entry))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	id, err := domain.ParseTransactionID(chi.URLParam(r, "transactionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entry, err := h.transactions.Get(ctx, requestcontext.UserID(ctx), number, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toTransactionResponse(entry))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := domain.ParseAccountNumber(chi.URLParam(r, "accountNumber"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.transactions.List(ctx, requestcontext.UserID(ctx), number)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := ListTransactionsResponse{Transactions: make([]TransactionResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(entry))
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func toTransactionResponse(entry *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            entry.ID.String(),
		AccountNumber: entry.AccountNumber.String(),
		Type:          string(entry.Type),
		Amount:        entry.Amount.Amount().StringFixed(2),
		Currency:      entry.Amount.Currency(),
		BalanceAfter:  entry.BalanceAfter.Amount().StringFixed(2),
		Reference:     entry.Reference.String(),
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}
