package domain

// FlavorInfo describes an instance flavor. UnitWeight is the billable
// multiplier derived from the flavor memory size and its class weight.
type FlavorInfo struct {
	ID         string
	Name       string
	Class      string
	UnitWeight float64
}
