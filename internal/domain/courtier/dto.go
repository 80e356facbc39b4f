package courtier

// RegisterInput registers the caller as a courtier.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Role      string `json:"role" validate:"omitempty"`
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}
