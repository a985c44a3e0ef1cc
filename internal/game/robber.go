package game

import (
	"fmt"
	"sort"

	"github.com/talgya/hex-settlers/internal/board"
)

// RobberResult reports a robber move: where it went, who was robbed
// (NoPlayer if nobody), and the stolen card if any.
type RobberResult struct {
	TargetHex int
	Victim    int
	Stolen    *board.Resource
}

// RobberTargetHexes returns every hex the robber may move to, in id
// order. The only exclusion is its current hex.
func (g *Game) RobberTargetHexes() []int {
	var targets []int
	for _, hexID := range g.Board.SortedHexIDs() {
		if hexID != g.RobberHex {
			targets = append(targets, hexID)
		}
	}
	return targets
}

// EligibleRobberVictims returns the players, other than the mover, who
// own a building on the target hex and hold at least one resource card.
// Players are deduplicated and listed in the hex's vertex winding order.
func (g *Game) EligibleRobberVictims(actingPlayerID, targetHexID int) ([]int, error) {
	hex, ok := g.Board.Hexes[targetHexID]
	if !ok {
		return nil, fmt.Errorf("%w: hex %d", ErrInvalidTarget, targetHexID)
	}

	var eligible []int
	seen := make(map[int]bool)
	for _, vertexID := range hex.Vertices {
		vertex := g.Board.Vertices[vertexID]
		owner := vertex.Owner
		if !vertex.Occupied() || owner == actingPlayerID || seen[owner] {
			continue
		}
		if g.Players[owner].TotalResourceCards() <= 0 {
			continue
		}
		seen[owner] = true
		eligible = append(eligible, owner)
	}
	return eligible, nil
}

// RobberMoveOptions maps every legal target hex to its eligible victims.
func (g *Game) RobberMoveOptions(actingPlayerID int) map[int][]int {
	options := make(map[int][]int)
	for _, hexID := range g.RobberTargetHexes() {
		victims, err := g.EligibleRobberVictims(actingPlayerID, hexID)
		if err != nil {
			continue
		}
		options[hexID] = victims
	}
	return options
}

// DiscardForSeven surrenders the player's owed cards to the bank after
// a rolled 7. The list must match the owed count exactly and be covered
// by the player's hand.
func (g *Game) DiscardForSeven(playerID int, cards []board.Resource) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if err := g.requirePhase(PhaseRobber); err != nil {
		return err
	}

	required := g.PendingDiscards[playerID]
	if required == 0 {
		return fmt.Errorf("%w: player %d has no pending discard", ErrInvalidDiscard, playerID)
	}
	if len(cards) != required {
		return fmt.Errorf("%w: must discard exactly %d cards, got %d", ErrInvalidDiscard, required, len(cards))
	}

	var staged ResourceCounts
	for _, r := range cards {
		if !r.Productive() {
			return fmt.Errorf("%w: %s is not discardable", ErrInvalidDiscard, r)
		}
		staged[r]++
	}

	player := g.Players[playerID]
	for i, amount := range staged {
		if player.Resources[i] < amount {
			return fmt.Errorf("%w: not enough %s", ErrInvalidDiscard, board.Resource(i))
		}
	}

	for i, amount := range staged {
		player.Resources[i] -= amount
		g.Bank[i] += amount
	}
	delete(g.PendingDiscards, playerID)
	return nil
}

// AutoDiscardForSeven samples the owed discard uniformly without
// replacement from the player's own hand. Returns the discarded cards;
// an empty return means nothing was owed.
func (g *Game) AutoDiscardForSeven(playerID int) ([]board.Resource, error) {
	if err := g.ensureActive(); err != nil {
		return nil, err
	}
	if err := g.requirePhase(PhaseRobber); err != nil {
		return nil, err
	}

	required := g.PendingDiscards[playerID]
	if required == 0 {
		return nil, nil
	}

	pool := g.Players[playerID].resourcePool()
	if len(pool) < required {
		return nil, fmt.Errorf("%w: hand smaller than owed discard", ErrInvalidDiscard)
	}

	perm := g.rng.Perm(len(pool))
	discard := make([]board.Resource, required)
	for i := 0; i < required; i++ {
		discard[i] = pool[perm[i]]
	}

	if err := g.DiscardForSeven(playerID, discard); err != nil {
		return nil, err
	}
	return discard, nil
}

// resourcePool flattens the hand into one card per slot, in enum order.
func (p *Player) resourcePool() []board.Resource {
	var pool []board.Resource
	for _, r := range board.ProductiveResources {
		for i := 0; i < p.Resources[r]; i++ {
			pool = append(pool, r)
		}
	}
	return pool
}

// MoveRobberAndSteal relocates the robber and steals one random card
// from the chosen victim. victimID may be NoPlayer to let the engine
// pick uniformly among eligible victims; with no eligible victim the
// robber still moves and nothing is stolen. This is the shared action
// behind both the post-seven resolution and the Knight card, so it
// carries no phase gate of its own.
func (g *Game) MoveRobberAndSteal(actingPlayerID, targetHexID, victimID int) (*RobberResult, error) {
	if err := g.ensureActive(); err != nil {
		return nil, err
	}
	if err := g.requireCurrentPlayer(actingPlayerID); err != nil {
		return nil, err
	}
	if _, ok := g.Board.Hexes[targetHexID]; !ok {
		return nil, fmt.Errorf("%w: hex %d", ErrInvalidTarget, targetHexID)
	}
	if targetHexID == g.RobberHex {
		return nil, fmt.Errorf("%w: robber must move to a different hex", ErrInvalidTarget)
	}

	eligible, err := g.EligibleRobberVictims(actingPlayerID, targetHexID)
	if err != nil {
		return nil, err
	}

	chosen := NoPlayer
	if victimID != NoPlayer {
		found := false
		for _, id := range eligible {
			if id == victimID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: player %d is not an eligible victim on hex %d", ErrInvalidTarget, victimID, targetHexID)
		}
		chosen = victimID
	} else if len(eligible) > 0 {
		chosen = eligible[g.rng.Intn(len(eligible))]
	}

	g.RobberHex = targetHexID

	result := &RobberResult{TargetHex: targetHexID, Victim: chosen}
	if chosen != NoPlayer {
		bag := g.Players[chosen].resourcePool()
		if len(bag) > 0 {
			stolen := bag[g.rng.Intn(len(bag))]
			g.Players[chosen].Resources[stolen]--
			g.Players[actingPlayerID].Resources[stolen]++
			result.Stolen = &stolen
		}
	}
	return result, nil
}

// ResolveRobberAfterSeven moves the robber out of the ROBBER phase once
// every owed discard has cleared, then returns play to TRADE.
func (g *Game) ResolveRobberAfterSeven(actingPlayerID, targetHexID, victimID int) (*RobberResult, error) {
	if err := g.ensureActive(); err != nil {
		return nil, err
	}
	if err := g.requireCurrentPlayer(actingPlayerID); err != nil {
		return nil, err
	}
	if err := g.requirePhase(PhaseRobber); err != nil {
		return nil, err
	}
	if len(g.PendingDiscards) > 0 {
		owed := make([]int, 0, len(g.PendingDiscards))
		for id := range g.PendingDiscards {
			owed = append(owed, id)
		}
		sort.Ints(owed)
		return nil, fmt.Errorf("%w: players %v still owe discards", ErrInvalidDiscard, owed)
	}

	result, err := g.MoveRobberAndSteal(actingPlayerID, targetHexID, victimID)
	if err != nil {
		return nil, err
	}
	g.Phase = PhaseTrade
	return result, nil
}
