package flavor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
)

// unitDivisorMB normalizes flavor memory into units: 256 MB = 1 unit.
const unitDivisorMB = 256.0

// WeightTable maps a flavor class to its billing weight. Classes without an
// entry weigh 1.0.
type WeightTable map[string]float64

func DefaultWeightTable() WeightTable {
	return WeightTable{"standard": 1.0}
}

func (w WeightTable) Weight(class string) float64 {
	if weight, ok := w[class]; ok {
		return weight
	}
	return 1.0
}

// PayloadError reports a malformed raw notification payload. The record
// cannot be billed, so the whole run aborts rather than skipping it.
type PayloadError struct {
	RecordID int64
	Err      error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("record %d: malformed exists notification payload: %v", e.RecordID, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Catalog resolves flavor IDs to their billing metadata, memoized per
// instance. A catalog is scoped to a single report run and must not be
// reused across runs.
type Catalog struct {
	weights WeightTable
	cache   map[string]domain.FlavorInfo
}

func NewCatalog(weights WeightTable) *Catalog {
	if weights == nil {
		weights = DefaultWeightTable()
	}
	return &Catalog{
		weights: weights,
		cache:   make(map[string]domain.FlavorInfo),
	}
}

// Resolve returns the flavor metadata for the record's flavor ID, parsing
// the raw notification payload on first sight of the ID.
func (c *Catalog) Resolve(rec domain.UsageRecord) (domain.FlavorInfo, error) {
	if info, ok := c.cache[rec.FlavorID]; ok {
		return info, nil
	}

	class := "standard"
	if before, _, found := strings.Cut(rec.FlavorID, "-"); found {
		class = before
	}

	name, memoryMB, err := parsePayload(rec.Raw)
	if err != nil {
		return domain.FlavorInfo{}, &PayloadError{RecordID: rec.ID, Err: err}
	}

	info := domain.FlavorInfo{
		ID:         rec.FlavorID,
		Name:       name,
		Class:      class,
		UnitWeight: (memoryMB / unitDivisorMB) * c.weights.Weight(class),
	}
	c.cache[rec.FlavorID] = info
	return info, nil
}

// The raw blob is the two-element notification envelope emitted by the audit
// pipeline; the second element carries the payload.
func parsePayload(raw []byte) (name string, memoryMB float64, err error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", 0, fmt.Errorf("decode notification envelope: %w", err)
	}
	if len(envelope) < 2 {
		return "", 0, fmt.Errorf("notification envelope has %d elements, want 2", len(envelope))
	}

	var notification struct {
		Payload struct {
			InstanceType string   `json:"instance_type"`
			MemoryMB     *float64 `json:"memory_mb"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(envelope[1], &notification); err != nil {
		return "", 0, fmt.Errorf("decode notification payload: %w", err)
	}

	p := notification.Payload
	if p.InstanceType == "" {
		return "", 0, fmt.Errorf("payload missing instance_type")
	}
	if p.MemoryMB == nil {
		return "", 0, fmt.Errorf("payload missing memory_mb")
	}

	return p.InstanceType, *p.MemoryMB, nil
}
