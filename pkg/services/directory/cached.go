package directory

import (
	"context"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
)

type cached struct {
	next  Directory
	cache map[string]domain.TenantInfo
}

// Cached memoizes lookups for the duration of one report run. Not safe for
// concurrent use; a run is single-threaded. Discard the wrapper between runs
// so stale classifications never leak into the next report.
func Cached(next Directory) Directory {
	return &cached{
		next:  next,
		cache: make(map[string]domain.TenantInfo),
	}
}

func (c *cached) Resolve(ctx context.Context, tenant string) (domain.TenantInfo, error) {
	if info, ok := c.cache[tenant]; ok {
		return info, nil
	}

	info, err := c.next.Resolve(ctx, tenant)
	if err != nil {
		return domain.TenantInfo{}, err
	}

	c.cache[tenant] = info
	return info, nil
}
