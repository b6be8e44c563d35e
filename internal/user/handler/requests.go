package handler

// AddressPayload mirrors the nested address object on user requests.
type AddressPayload struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	Line3    string `json:"line3,omitempty"`
	Town     string `json:"town"`
	County   string `json:"county"`
	Postcode string `json:"postcode"`
}

// CreateUserRequest is the payload for POST /v1/users.
type CreateUserRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phoneNumber"`
	Address     AddressPayload `json:"address"`
	Password    string         `json:"password"`
}

// UpdateUserRequest is the payload for PATCH /v1/users/{userId}. All fields
// are optional; absent fields keep their current value.
type UpdateUserRequest struct {
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phoneNumber"`
	Address     *AddressPayload `json:"address"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the wire shape of a user. The password hash never leaves
// the service.
type UserResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phoneNumber"`
	Address     AddressPayload `json:"address"`
	CreatedAt   string         `json:"createdTimestamp"`
	UpdatedAt   string         `json:"updatedTimestamp"`
}

// LoginResponse is the reply to a successful authentication.
type LoginResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
