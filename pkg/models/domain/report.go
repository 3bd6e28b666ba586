package domain

// Bucket accumulates one classification value. The percentage fields are
// recomputed against the running totals on every update, so they only settle
// once the full pass over the period's records completes.
//
// The descriptive fields are populated where they apply: FlavorName on
// per-flavor buckets, the tenant fields on per-tenant buckets.
type Bucket struct {
	Count            int64
	UnitHours        float64
	PercentCount     float64
	PercentUnitHours float64

	FlavorName  string
	Tenant      string
	AccountType string
	BillingType string
	AccountName string
	Email       string
	Phone       string
}

// TenantRanking holds the tenants of each grouping key ordered descending by
// one metric, capped at 100 entries per key.
type TenantRanking struct {
	AccountType map[string][]*Bucket
	BillingType map[string][]*Bucket
}

// Report is the final snapshot of one instance-hours run.
type Report struct {
	TotalInstanceCount    int64
	TotalUnitHours        float64
	Flavor                map[string]*Bucket
	FlavorClass           map[string]*Bucket
	AccountType           map[string]*Bucket
	BillingType           map[string]*Bucket
	TopHundredByCount     TenantRanking
	TopHundredByUnitHours TenantRanking
}
