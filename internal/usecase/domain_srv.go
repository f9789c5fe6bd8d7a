package usecase

import (
	"context"
	"net/http"
	"regexp"

	"medpages/internal/dto/response"

	"go.uber.org/zap"
)

// DNS label: lowercase alphanumerics and hyphens, no leading/trailing
// hyphen, 2..63 characters.
var labelRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

type registryLookup interface {
	Lookup(ctx context.Context, fqdn string) (int, error)
}

type dnsResolver interface {
	Resolve(ctx context.Context, fqdn string) (bool, error)
}

type DomainService interface {
	Check(ctx context.Context, label string) (*response.CheckDomainResponse, error)
}

type domainService struct {
	rdap   registryLookup
	dns    dnsResolver
	suffix string
	log    *zap.Logger
}

func NewDomainService(rdap registryLookup, dns dnsResolver, suffix string, log *zap.Logger) DomainService {
	return &domainService{
		rdap:   rdap,
		dns:    dns,
		suffix: suffix,
		log:    log,
	}
}

// Check classifies a candidate label. Every outcome is a normal response;
// the returned error is reserved for transport-level failure of the RDAP
// call, which the handler surfaces as a 500.
func (s *domainService) Check(ctx context.Context, label string) (*response.CheckDomainResponse, error) {
	if len(label) < 2 || len(label) > 63 || !labelRe.MatchString(label) {
		return &response.CheckDomainResponse{
			Available: false,
			Domain:    label,
			Error:     "invalid domain format",
		}, nil
	}

	fqdn := label + s.suffix

	status, err := s.rdap.Lookup(ctx, fqdn)
	if err != nil {
		s.log.Error("RDAP lookup failed", zap.Error(err), zap.String("fqdn", fqdn))
		return nil, err
	}

	switch status {
	case http.StatusNotFound:
		return &response.CheckDomainResponse{
			Available:  true,
			Domain:     label,
			FullDomain: fqdn,
			Message:    "domain is available",
		}, nil

	case http.StatusOK:
		return &response.CheckDomainResponse{
			Available:  false,
			Domain:     label,
			FullDomain: fqdn,
			Message:    "domain is already registered",
		}, nil

	case http.StatusForbidden:
		// Registry is rate-limiting RDAP; fall back to a DNS signal. A name
		// that resolves is certainly taken. One that doesn't is probably
		// free, and a resolver failure is treated the same way.
		resolves, derr := s.dns.Resolve(ctx, fqdn)
		if derr != nil {
			s.log.Warn("DNS fallback failed, assuming probably available",
				zap.Error(derr),
				zap.String("fqdn", fqdn),
			)
			return &response.CheckDomainResponse{
				Available:  true,
				Probable:   true,
				Domain:     label,
				FullDomain: fqdn,
				Message:    "domain is probably available",
			}, nil
		}

		if resolves {
			return &response.CheckDomainResponse{
				Available:  false,
				Domain:     label,
				FullDomain: fqdn,
				Message:    "domain is already in use",
			}, nil
		}

		return &response.CheckDomainResponse{
			Available:  true,
			Probable:   true,
			Domain:     label,
			FullDomain: fqdn,
			Message:    "domain is probably available",
		}, nil

	default:
		s.log.Warn("Unexpected RDAP status",
			zap.Int("status", status),
			zap.String("fqdn", fqdn),
		)
		return &response.CheckDomainResponse{
			Available:  false,
			Domain:     label,
			FullDomain: fqdn,
			Error:      "could not verify domain availability",
		}, nil
	}
}
