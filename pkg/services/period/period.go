package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
)

type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

var ErrUnsupportedGranularity = errors.New("unsupported granularity")

// Previous returns the immediately preceding full period for the given
// reference time: the last complete hour or the last complete UTC day.
func Previous(ref time.Time, granularity Granularity) (domain.Period, error) {
	ref = ref.UTC()

	switch granularity {
	case GranularityHour:
		end := ref.Truncate(time.Hour)
		return domain.Period{Start: end.Add(-time.Hour), End: end}, nil
	case GranularityDay:
		end := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		return domain.Period{Start: end.AddDate(0, 0, -1), End: end}, nil
	default:
		return domain.Period{}, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, granularity)
	}
}
