package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/tenant"
)

// TenantAPI is the part of the core banking API the portal calls.
// *tenant.Client satisfies it.
type TenantAPI interface {
	SignIn(ctx context.Context, creds tenant.Credentials) (string, error)
	SignUp(ctx context.Context, req tenant.SignUpRequest) (string, error)
	Me(ctx context.Context, token string) (*tenant.User, error)
	ListReclamations(ctx context.Context, token string, limit, offset int) (*tenant.ReclamationPage, error)
	GetReclamation(ctx context.Context, token, id string) (*tenant.Reclamation, error)
	CreateReclamation(ctx context.Context, token string, in tenant.ReclamationInput) (*tenant.Reclamation, error)
}

// tenantError maps client errors onto the domain catalogue. notFound is the
// sentinel to use for a 404.
func tenantError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tenant.ErrUnauthorized):
		return domain.ErrUnauthorized
	case errors.Is(err, tenant.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
}
