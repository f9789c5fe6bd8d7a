package response

type CheckDomainResponse struct {
	Available  bool   `json:"available"`
	Domain     string `json:"domain"`
	FullDomain string `json:"fullDomain,omitempty"`
	Probable   bool   `json:"probable,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}
