package board

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoOwner marks an unowned vertex or edge.
const NoOwner = -1

// Building levels on a vertex.
const (
	LevelNone       = 0
	LevelSettlement = 1
	LevelCity       = 2
)

// Hex is a single tile. Topology fields are fixed at generation;
// Resource and Token are only rewritten when restoring a snapshot.
type Hex struct {
	ID       int
	Coord    HexCoord
	Resource Resource
	Token    int // production token; 0 for wasteland
	Vertices [6]int
	Edges    [6]int
	Neighbors map[int]bool

	// Elevation is a render hint for graphical front ends, derived
	// deterministically from the board seed. It carries no rules weight
	// and is recomputed on load rather than persisted.
	Elevation float64
}

// Vertex is a building site where up to three hexes meet.
type Vertex struct {
	ID               int
	Owner            int // NoOwner if unoccupied
	Level            int // LevelNone, LevelSettlement, LevelCity
	AdjacentVertices map[int]bool
	AdjacentEdges    map[int]bool
	Hexes            map[int]bool
}

// Occupied reports whether a building stands on the vertex.
func (v *Vertex) Occupied() bool {
	return v.Owner != NoOwner && v.Level > LevelNone
}

// Edge is a road site between two vertices. V1 < V2 always.
type Edge struct {
	ID    int
	V1    int
	V2    int
	Owner int // NoOwner if no road
	Hexes map[int]bool
}

// Occupied reports whether a road has been built on the edge.
func (e *Edge) Occupied() bool {
	return e.Owner != NoOwner
}

// Coastal reports whether the edge lies on the board rim.
func (e *Edge) Coastal() bool {
	return len(e.Hexes) == 1
}

// Port is a coastal trade bonus tied to an edge. A nil Resource means a
// generic port that accepts any productive resource at Rate.
type Port struct {
	ID       int
	EdgeID   int
	Vertices [2]int
	Rate     int
	Resource *Resource
}

// PortSpec configures one port when overriding the generated layout.
type PortSpec struct {
	EdgeID   int
	Rate     int
	Resource *Resource
}

// Board owns the full topology as flat id-keyed maps. Relations between
// hexes, vertices, and edges are id-to-id, never pointers, so the
// cyclic adjacency structure stays acyclic in memory.
type Board struct {
	Radius   int
	Seed     int64
	Hexes    map[int]*Hex
	Vertices map[int]*Vertex
	Edges    map[int]*Edge
	Ports    map[int]*Port

	coordToHex map[HexCoord]int
}

// standardTokens is the production-token multiset for an 18-tile
// (19 hexes minus one wasteland) board.
var standardTokens = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

// tokenCycle fills non-wasteland tiles on non-standard board sizes.
var tokenCycle = []int{2, 3, 4, 5, 6, 8, 9, 10, 11, 12}

// New generates a board of the given radius. Generation is
// deterministic for a given seed. A non-nil customPorts list replaces
// the generated port layout after validation.
func New(radius int, seed int64, customPorts []PortSpec) (*Board, error) {
	if radius < 1 {
		return nil, fmt.Errorf("board radius must be >= 1, got %d", radius)
	}

	b := &Board{
		Radius:     radius,
		Seed:       seed,
		Hexes:      make(map[int]*Hex),
		Vertices:   make(map[int]*Vertex),
		Edges:      make(map[int]*Edge),
		Ports:      make(map[int]*Port),
		coordToHex: make(map[HexCoord]int),
	}

	rng := rand.New(rand.NewSource(seed))
	b.generate(rng)

	if customPorts != nil {
		if err := b.ConfigurePorts(customPorts); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// cornerKey is a hex corner position rounded to micro-unit precision.
// Corners shared between neighboring hexes land on the same key, which
// is what merges them into a single vertex.
type cornerKey struct {
	X int64
	Y int64
}

func roundMicro(v float64) int64 {
	return int64(math.Round(v * 1e6))
}

type edgeKey struct {
	A int // min vertex id
	B int // max vertex id
}

func (b *Board) generate(rng *rand.Rand) {
	// Enumerate axial coordinates within the radius, row-major in q
	// so hex ids are stable across runs.
	var coords []HexCoord
	for q := -b.Radius; q <= b.Radius; q++ {
		r1 := -b.Radius
		if -q-b.Radius > r1 {
			r1 = -q - b.Radius
		}
		r2 := b.Radius
		if -q+b.Radius < r2 {
			r2 = -q + b.Radius
		}
		for r := r1; r <= r2; r++ {
			coords = append(coords, HexCoord{Q: q, R: r})
		}
	}

	resources := b.buildResourceList(len(coords), rng)
	tokens := b.buildTokenList(len(coords), rng)

	elevNoise := opensimplex.NewNormalized(b.Seed)

	vertexLookup := make(map[cornerKey]int)
	edgeLookup := make(map[edgeKey]int)

	for hexID, coord := range coords {
		// Pointy-top pixel projection of the hex center.
		centerX := math.Sqrt(3) * (float64(coord.Q) + float64(coord.R)/2)
		centerY := 1.5 * float64(coord.R)

		// Six corners at 60-degree spacing, deduplicated through the
		// rounded-position lookup.
		var vertexIDs [6]int
		for corner := 0; corner < 6; corner++ {
			angle := (60*float64(corner) - 30) * math.Pi / 180
			key := cornerKey{
				X: roundMicro(centerX + math.Cos(angle)),
				Y: roundMicro(centerY + math.Sin(angle)),
			}

			vertexID, ok := vertexLookup[key]
			if !ok {
				vertexID = len(b.Vertices)
				vertexLookup[key] = vertexID
				b.Vertices[vertexID] = &Vertex{
					ID:               vertexID,
					Owner:            NoOwner,
					AdjacentVertices: make(map[int]bool),
					AdjacentEdges:    make(map[int]bool),
					Hexes:            make(map[int]bool),
				}
			}
			vertexIDs[corner] = vertexID
		}

		// Edges between consecutive corners, deduplicated on the
		// canonical (min, max) vertex pair.
		var edgeIDs [6]int
		for i := 0; i < 6; i++ {
			a := vertexIDs[i]
			c := vertexIDs[(i+1)%6]
			key := edgeKey{A: a, B: c}
			if key.A > key.B {
				key.A, key.B = key.B, key.A
			}

			edgeID, ok := edgeLookup[key]
			if !ok {
				edgeID = len(b.Edges)
				edgeLookup[key] = edgeID
				b.Edges[edgeID] = &Edge{
					ID:    edgeID,
					V1:    key.A,
					V2:    key.B,
					Owner: NoOwner,
					Hexes: make(map[int]bool),
				}
			}
			edgeIDs[i] = edgeID

			b.Vertices[a].AdjacentVertices[c] = true
			b.Vertices[c].AdjacentVertices[a] = true
			b.Vertices[a].AdjacentEdges[edgeID] = true
			b.Vertices[c].AdjacentEdges[edgeID] = true
		}

		resource := resources[hexID]
		token := 0
		if resource != Wasteland {
			token = tokens[len(tokens)-1]
			tokens = tokens[:len(tokens)-1]
		}

		hex := &Hex{
			ID:        hexID,
			Coord:     coord,
			Resource:  resource,
			Token:     token,
			Vertices:  vertexIDs,
			Edges:     edgeIDs,
			Neighbors: make(map[int]bool),
			Elevation: octaveNoise(elevNoise, centerX, centerY, 3, 0.3, 0.5),
		}
		b.Hexes[hexID] = hex
		b.coordToHex[coord] = hexID

		for _, vertexID := range vertexIDs {
			b.Vertices[vertexID].Hexes[hexID] = true
		}
		for _, edgeID := range edgeIDs {
			b.Edges[edgeID].Hexes[hexID] = true
		}
	}

	// Neighbor pass once every hex is placed.
	for _, hex := range b.Hexes {
		for _, nc := range hex.Coord.Neighbors() {
			if neighborID, ok := b.coordToHex[nc]; ok {
				hex.Neighbors[neighborID] = true
			}
		}
	}

	b.assignPorts(rng)
}

// buildResourceList produces the shuffled tile resource assignment.
// A 19-hex board uses the fixed standard distribution; other sizes
// cycle the productive kinds evenly around a single wasteland.
func (b *Board) buildResourceList(tileCount int, rng *rand.Rand) []Resource {
	var resources []Resource
	if tileCount == 19 {
		counts := map[Resource]int{Timber: 4, Stone: 3, Meat: 4, Grain: 4, Iron: 3}
		for _, r := range ProductiveResources {
			for i := 0; i < counts[r]; i++ {
				resources = append(resources, r)
			}
		}
		resources = append(resources, Wasteland)
	} else {
		for i := 0; i < tileCount-1; i++ {
			resources = append(resources, ProductiveResources[i%NumProductive])
		}
		resources = append(resources, Wasteland)
	}

	rng.Shuffle(len(resources), func(i, j int) {
		resources[i], resources[j] = resources[j], resources[i]
	})
	return resources
}

// buildTokenList produces the shuffled production-token assignment for
// the tileCount-1 non-wasteland tiles.
func (b *Board) buildTokenList(tileCount int, rng *rand.Rand) []int {
	productiveTiles := tileCount - 1

	var tokens []int
	if productiveTiles == len(standardTokens) {
		tokens = append(tokens, standardTokens...)
	} else {
		for i := 0; i < productiveTiles; i++ {
			tokens = append(tokens, tokenCycle[i%len(tokenCycle)])
		}
	}

	rng.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})
	return tokens
}

// assignPorts spreads ports over the coastal edges. The standard 19-hex
// board gets the fixed nine-port mix (five 2:1, four 3:1); other sizes
// get a generic port per three coastal edges, at least one, at most nine.
func (b *Board) assignPorts(rng *rand.Rand) {
	var coastal []*Edge
	for _, edge := range b.Edges {
		if edge.Coastal() {
			coastal = append(coastal, edge)
		}
	}
	sort.Slice(coastal, func(i, j int) bool { return coastal[i].ID < coastal[j].ID })
	if len(coastal) == 0 {
		return
	}

	type assignment struct {
		rate     int
		resource *Resource
	}

	var assignments []assignment
	if len(b.Hexes) == 19 && len(coastal) >= 9 {
		for i := range ProductiveResources {
			r := ProductiveResources[i]
			assignments = append(assignments, assignment{rate: 2, resource: &r})
		}
		for i := 0; i < 4; i++ {
			assignments = append(assignments, assignment{rate: 3})
		}
	} else {
		count := len(coastal) / 3
		if count < 1 {
			count = 1
		}
		if count > 9 {
			count = 9
		}
		for i := 0; i < count; i++ {
			assignments = append(assignments, assignment{rate: 3})
		}
	}

	portCount := len(assignments)
	step := float64(len(coastal)) / float64(portCount)

	chosen := make([]int, 0, portCount)
	used := make(map[int]bool)
	for i := 0; i < portCount; i++ {
		idx := int(float64(i)*step) % len(coastal)
		if !used[idx] {
			used[idx] = true
			chosen = append(chosen, idx)
		}
	}
	// Backfill when even stepping collides on small coastlines.
	for candidate := 0; len(chosen) < portCount; candidate++ {
		if !used[candidate%len(coastal)] {
			used[candidate%len(coastal)] = true
			chosen = append(chosen, candidate%len(coastal))
		}
	}
	sort.Ints(chosen)

	rng.Shuffle(len(assignments), func(i, j int) {
		assignments[i], assignments[j] = assignments[j], assignments[i]
	})

	for portID := 0; portID < portCount; portID++ {
		edge := coastal[chosen[portID]]
		b.Ports[portID] = &Port{
			ID:       portID,
			EdgeID:   edge.ID,
			Vertices: [2]int{edge.V1, edge.V2},
			Rate:     assignments[portID].rate,
			Resource: assignments[portID].resource,
		}
	}
}

// ConfigurePorts replaces the port layout with an explicit list. Each
// spec must name a distinct coastal edge, use a rate of 2, 3, or 4, and
// name a productive resource when the rate is 2.
func (b *Board) ConfigurePorts(specs []PortSpec) error {
	usedEdges := make(map[int]bool)
	ports := make(map[int]*Port, len(specs))

	for portID, spec := range specs {
		edge, ok := b.Edges[spec.EdgeID]
		if !ok {
			return fmt.Errorf("port edge %d is not a valid edge", spec.EdgeID)
		}
		if !edge.Coastal() {
			return fmt.Errorf("port edge %d is not coastal", spec.EdgeID)
		}
		if usedEdges[spec.EdgeID] {
			return fmt.Errorf("port edge %d already assigned", spec.EdgeID)
		}
		if spec.Rate != 2 && spec.Rate != 3 && spec.Rate != 4 {
			return fmt.Errorf("port rate must be 2, 3, or 4, got %d", spec.Rate)
		}
		if spec.Resource != nil && !spec.Resource.Productive() {
			return fmt.Errorf("port resource must be productive, got %s", *spec.Resource)
		}
		if spec.Rate == 2 && spec.Resource == nil {
			return fmt.Errorf("a 2:1 port must specify a resource")
		}

		var resource *Resource
		if spec.Resource != nil {
			r := *spec.Resource
			resource = &r
		}
		ports[portID] = &Port{
			ID:       portID,
			EdgeID:   spec.EdgeID,
			Vertices: [2]int{edge.V1, edge.V2},
			Rate:     spec.Rate,
			Resource: resource,
		}
		usedEdges[spec.EdgeID] = true
	}

	b.Ports = ports
	return nil
}

// HexAt returns the hex id at an axial coordinate, or false.
func (b *Board) HexAt(coord HexCoord) (int, bool) {
	id, ok := b.coordToHex[coord]
	return id, ok
}

// octaveNoise layers multiple noise frequencies for smoother terrain
// variation than a single simplex sample.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
