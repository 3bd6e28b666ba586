package api

import (
	"encoding/json"
	"time"
)

type Bucket struct {
	Count            int64   `json:"count"`
	UnitHours        float64 `json:"unit_hours"`
	PercentCount     float64 `json:"percent_count"`
	PercentUnitHours float64 `json:"percent_unit_hours"`

	FlavorName  string `json:"flavor_name,omitempty"`
	Tenant      string `json:"tenant,omitempty"`
	AccountType string `json:"account_type,omitempty"`
	BillingType string `json:"billing_type,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type TenantRanking struct {
	AccountType map[string][]Bucket `json:"account_type"`
	BillingType map[string][]Bucket `json:"billing_type"`
}

type Report struct {
	TotalInstanceCount    int64             `json:"total_instance_count"`
	TotalUnitHours        float64           `json:"total_unit_hours"`
	Flavor                map[string]Bucket `json:"flavor"`
	FlavorClass           map[string]Bucket `json:"flavor_class"`
	AccountType           map[string]Bucket `json:"account_type"`
	BillingType           map[string]Bucket `json:"billing_type"`
	TopHundredByCount     TenantRanking     `json:"top_hundred_by_count"`
	TopHundredByUnitHours TenantRanking     `json:"top_hundred_by_unit_hours"`
}

// StoredReport is the persisted form of a report: the report body plus the
// period boundaries and versioning metadata it was generated with.
type StoredReport struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Version     int             `json:"version"`
	Created     time.Time       `json:"created"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Report      json.RawMessage `json:"report"`
}

// GenerateReportRequest is the POST body for computing a report. Time, when
// set, overrides the reference time the previous period is derived from and
// uses the "YYYY-MM-DD HH:MM:SS" layout.
type GenerateReportRequest struct {
	Granularity string `json:"granularity"`
	Time        string `json:"time,omitempty"`
	Store       bool   `json:"store"`
}
