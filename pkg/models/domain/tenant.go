package domain

// TenantInfo is the billing classification of a tenant as resolved by the
// tenant directory. Stable within a single report run.
type TenantInfo struct {
	Tenant      string
	AccountType string
	BillingType string
	AccountName string
	Email       string
	Phone       string
}
