package directory

import (
	"context"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// iniDirectory reads tenant classifications from an ini registry file, one
// section per tenant:
//
//	[12345]
//	account_type = managed
//	billing_type = internal
//	account_name = Example Corp
//	email = billing@example.com
//	phone = 1-555-000-0000
//
// Keys left out fall back to the default classification.
type iniDirectory struct {
	cfg *ini.File
}

func NewRegistry(path string) (Directory, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &iniDirectory{cfg: cfg}, nil
}

func (d *iniDirectory) Resolve(_ context.Context, tenant string) (domain.TenantInfo, error) {
	info := DefaultTenantInfo(tenant)

	if !d.cfg.HasSection(tenant) {
		return info, nil
	}

	section := d.cfg.Section(tenant)
	if v := section.Key("account_type").String(); v != "" {
		info.AccountType = v
	}
	if v := section.Key("billing_type").String(); v != "" {
		info.BillingType = v
	}
	if v := section.Key("account_name").String(); v != "" {
		info.AccountName = v
	}
	if v := section.Key("email").String(); v != "" {
		info.Email = v
	}
	if v := section.Key("phone").String(); v != "" {
		info.Phone = v
	}

	return info, nil
}
