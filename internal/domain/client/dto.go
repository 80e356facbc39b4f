package client

// CreateInput holds the fields of a new profile. ID, kind and counters are
// never taken from callers.
type CreateInput struct {
	Email      string `json:"email" validate:"required,max=255"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	Address    string `json:"address" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=16"`
	Notes      string `json:"notes" validate:"omitempty,max=4000"`
}

// UpdateInput overwrites only the non-nil fields.
type UpdateInput struct {
	Email      *string `json:"email" validate:"omitempty,max=255"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=16"`
	Notes      *string `json:"notes" validate:"omitempty,max=4000"`
}

// TouchesIdentity reports whether any identity or contact field is set.
// Notes are not part of a person's identity.
func (in UpdateInput) TouchesIdentity() bool {
	return in.Email != nil || in.FirstName != nil || in.LastName != nil ||
		in.Phone != nil || in.Address != nil || in.City != nil || in.PostalCode != nil
}

// LookupResponse is the wire form of a Resolution.
type LookupResponse struct {
	Found   bool     `json:"found"`
	Kind    Kind     `json:"kind,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

func toLookupResponse(r Resolution) LookupResponse {
	return LookupResponse{Found: r.Found, Kind: r.Kind, Profile: r.Profile}
}

// RegisterInput is an account holder's own registration.
type RegisterInput struct {
	Email      string `json:"email" validate:"required,max=255"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=32"`
	Address    string `json:"address" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=16"`
}
