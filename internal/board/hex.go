// Package board provides the hex grid topology for the rules engine:
// hexes, the deduplicated vertex/edge graph between them, trade ports,
// and the placement-legality queries the game layer builds on.
// Uses axial coordinates (q, r) for the hex grid.
package board

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Resource enumerates the tile resource kinds. The first five are
// productive; Wasteland tiles yield nothing and carry no token.
type Resource uint8

const (
	Timber Resource = iota
	Stone
	Meat
	Grain
	Iron
	Wasteland
)

// NumProductive is the number of productive resource kinds. Productive
// resources are the values below NumProductive, which lets them index
// fixed-size count arrays directly.
const NumProductive = 5

// ProductiveResources lists the five productive kinds in enum order.
var ProductiveResources = [NumProductive]Resource{Timber, Stone, Meat, Grain, Iron}

// Productive reports whether the resource can be held, paid, or traded.
func (r Resource) Productive() bool {
	return r < NumProductive
}

func (r Resource) String() string {
	switch r {
	case Timber:
		return "Timber"
	case Stone:
		return "Stone"
	case Meat:
		return "Meat"
	case Grain:
		return "Grain"
	case Iron:
		return "Iron"
	case Wasteland:
		return "Wasteland"
	default:
		return "Unknown"
	}
}

// ParseResource maps a resource name back to its enum value.
func ParseResource(name string) (Resource, bool) {
	switch name {
	case "Timber":
		return Timber, true
	case "Stone":
		return Stone, true
	case "Meat":
		return Meat, true
	case "Grain":
		return Grain, true
	case "Iron":
		return Iron, true
	case "Wasteland":
		return Wasteland, true
	default:
		return 0, false
	}
}
