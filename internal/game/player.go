package game

import (
	"fmt"
	"sort"

	"github.com/talgya/hex-settlers/internal/board"
)

// ResourceCounts is a fixed-size ledger over the closed set of
// productive resource kinds, indexed by board.Resource.
type ResourceCounts [board.NumProductive]int

// Total returns the number of cards the ledger holds.
func (rc ResourceCounts) Total() int {
	sum := 0
	for _, n := range rc {
		sum += n
	}
	return sum
}

// Get returns the count for a resource, zero for non-productive kinds.
func (rc ResourceCounts) Get(r board.Resource) int {
	if !r.Productive() {
		return 0
	}
	return rc[r]
}

// Build costs, charged to the bank before placement legality is checked.
var (
	RoadCost       = ResourceCounts{board.Timber: 1, board.Stone: 1}
	SettlementCost = ResourceCounts{board.Timber: 1, board.Stone: 1, board.Meat: 1, board.Grain: 1}
	CityCost       = ResourceCounts{board.Grain: 2, board.Iron: 3}
	DevCardCost    = ResourceCounts{board.Meat: 1, board.Grain: 1, board.Iron: 1}
)

// Player holds one participant's resources, cards, and structures.
type Player struct {
	ID               int
	Name             string
	Resources        ResourceCounts
	DevelopmentCards []DevCard
	VictoryPoints    int
	Settlements      map[int]bool // vertex ids
	Cities           map[int]bool // vertex ids
	Roads            map[int]bool // edge ids
}

// NewPlayer creates an empty ledger entry for one named player.
func NewPlayer(id int, name string) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		Settlements: make(map[int]bool),
		Cities:      make(map[int]bool),
		Roads:       make(map[int]bool),
	}
}

// AddResource grants amount of a productive resource. Amount must be
// non-negative.
func (p *Player) AddResource(r board.Resource, amount int) error {
	if !r.Productive() {
		return fmt.Errorf("%w: cannot hold %s", ErrInsufficientResources, r)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must be >= 0", ErrInsufficientResources)
	}
	p.Resources[r] += amount
	return nil
}

// RemoveResource surrenders amount of a productive resource, failing
// without effect if the player holds less.
func (p *Player) RemoveResource(r board.Resource, amount int) error {
	if !r.Productive() {
		return fmt.Errorf("%w: cannot hold %s", ErrInsufficientResources, r)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount must be >= 0", ErrInsufficientResources)
	}
	if p.Resources[r] < amount {
		return fmt.Errorf("%w: not enough %s", ErrInsufficientResources, r)
	}
	p.Resources[r] -= amount
	return nil
}

// CanAfford reports whether the ledger covers the full cost.
func (p *Player) CanAfford(cost ResourceCounts) bool {
	for i, amount := range cost {
		if p.Resources[i] < amount {
			return false
		}
	}
	return true
}

// SpendResources applies a cost atomically: either every line item is
// deducted or nothing is.
func (p *Player) SpendResources(cost ResourceCounts) error {
	if !p.CanAfford(cost) {
		return fmt.Errorf("%w: cannot afford cost", ErrInsufficientResources)
	}
	for i, amount := range cost {
		p.Resources[i] -= amount
	}
	return nil
}

// TotalResourceCards returns the size of the player's resource hand.
func (p *Player) TotalResourceCards() int {
	return p.Resources.Total()
}

// HasCard reports whether the player holds at least one card of the kind.
func (p *Player) HasCard(card DevCard) bool {
	for _, c := range p.DevelopmentCards {
		if c == card {
			return true
		}
	}
	return false
}

// removeCard takes one card of the kind out of the hand.
func (p *Player) removeCard(card DevCard) bool {
	for i, c := range p.DevelopmentCards {
		if c == card {
			p.DevelopmentCards = append(p.DevelopmentCards[:i], p.DevelopmentCards[i+1:]...)
			return true
		}
	}
	return false
}

// OccupiedVertices returns the vertices holding any of the player's
// buildings, settlements and cities alike, in ascending order.
func (p *Player) OccupiedVertices() []int {
	ids := make([]int, 0, len(p.Settlements)+len(p.Cities))
	for id := range p.Settlements {
		ids = append(ids, id)
	}
	for id := range p.Cities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SortedRoads returns the player's road edge ids in ascending order.
func (p *Player) SortedRoads() []int {
	ids := make([]int, 0, len(p.Roads))
	for id := range p.Roads {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
