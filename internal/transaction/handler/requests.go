package handler

import (
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the payload for
// POST /v1/accounts/{accountNumber}/transactions. Amount accepts a JSON
// number or string; decimal parsing keeps "10.10" exact.
type CreateTransactionRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Type      string          `json:"type"`
	Reference string          `json:"reference"`
}

// TransactionResponse is the wire shape of a ledger entry.
type TransactionResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"accountNumber"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	BalanceAfter  string `json:"balanceAfter"`
	Reference     string `json:"reference"`
	CreatedAt     string `json:"createdTimestamp"`
}

// ListTransactionsResponse wraps the ledger collection.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
