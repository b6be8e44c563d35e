package handler

// CreateAccountRequest is the payload for POST /v1/accounts.
type CreateAccountRequest struct {
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
}

// UpdateAccountRequest is the payload for PATCH /v1/accounts/{accountNumber}.
type UpdateAccountRequest struct {
	Name string `json:"name"`
}

// AccountResponse is the wire shape of an account.
type AccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	SortCode      string `json:"sortCode"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
	Status        string `json:"status"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	CreatedAt     string `json:"createdTimestamp"`
	UpdatedAt     string `json:"updatedTimestamp"`
}

// ListAccountsResponse wraps the account collection.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
