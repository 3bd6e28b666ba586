package report

import (
	"sort"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"golang.org/x/exp/maps"
)

const rankingLimit = 100

// Metric selects the bucket field a ranking orders by.
type Metric func(*domain.Bucket) float64

func ByCount(b *domain.Bucket) float64     { return float64(b.Count) }
func ByUnitHours(b *domain.Bucket) float64 { return b.UnitHours }

// TenantRankings ranks the tenants of every grouping key in both nested
// groupings, descending by the metric, keeping at most 100 per key. Pure
// function of the final engine state; ties keep extraction order, which is
// unspecified.
func TenantRankings(
	byAccountType, byBillingType map[string]map[string]*domain.Bucket,
	metric Metric,
) domain.TenantRanking {
	return domain.TenantRanking{
		AccountType: topHundred(byAccountType, metric),
		BillingType: topHundred(byBillingType, metric),
	}
}

func topHundred(groups map[string]map[string]*domain.Bucket, metric Metric) map[string][]*domain.Bucket {
	top := make(map[string][]*domain.Bucket, len(groups))
	for key, tenants := range groups {
		ranked := maps.Values(tenants)
		sort.SliceStable(ranked, func(i, j int) bool {
			return metric(ranked[i]) > metric(ranked[j])
		})
		if len(ranked) > rankingLimit {
			ranked = ranked[:rankingLimit]
		}
		top[key] = ranked
	}
	return top
}
