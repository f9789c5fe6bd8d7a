package request

type RequestOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=100"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}
