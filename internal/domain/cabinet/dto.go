package cabinet

type CreateInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
}

type UpdateInput struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
}

type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type TransferAdminRequest struct {
	CourtierID string `json:"courtier_id" validate:"required"`
}
