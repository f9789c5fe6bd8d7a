package request

type CheckDomainRequest struct {
	Domain string `json:"domain" validate:"required"`
}
