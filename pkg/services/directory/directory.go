package directory

import (
	"context"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
)

// Directory resolves a tenant ID to its billing classification. Resolve must
// return a classification even for unknown tenants.
type Directory interface {
	Resolve(ctx context.Context, tenant string) (domain.TenantInfo, error)
}

// DefaultTenantInfo is the fallback classification for tenants the directory
// has no entry for.
func DefaultTenantInfo(tenant string) domain.TenantInfo {
	return domain.TenantInfo{
		Tenant:      tenant,
		AccountType: "core",
		BillingType: "external",
		AccountName: "unknown account",
		Email:       "anonymous@unknown.com",
		Phone:       "1-555-555-1212",
	}
}

type defaultDirectory struct{}

// NewDefault returns a directory that classifies every tenant with the
// fallback record.
func NewDefault() Directory {
	return defaultDirectory{}
}

func (defaultDirectory) Resolve(_ context.Context, tenant string) (domain.TenantInfo, error) {
	return DefaultTenantInfo(tenant), nil
}
