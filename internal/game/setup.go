package game

import (
	"fmt"

	"github.com/talgya/hex-settlers/internal/board"
)

// Initial-setup helpers: two free settlement+road placements per player
// in snake order, with starting resources granted for the second
// settlement.

// InitialPlacementOrder returns the snake placement sequence: turn
// order forward, then reversed.
func InitialPlacementOrder(turnOrder []int) []int {
	order := make([]int, 0, len(turnOrder)*2)
	order = append(order, turnOrder...)
	for i := len(turnOrder) - 1; i >= 0; i-- {
		order = append(order, turnOrder[i])
	}
	return order
}

// GrantStartingResources pays the player one card per non-wasteland hex
// touching the vertex of their second settlement, capped by bank stock.
func (g *Game) GrantStartingResources(playerID, vertexID int) (ResourceCounts, error) {
	var payout ResourceCounts

	vertex, ok := g.Board.Vertices[vertexID]
	if !ok {
		return payout, fmt.Errorf("%w: vertex %d", ErrIllegalPlacement, vertexID)
	}
	player, ok := g.Players[playerID]
	if !ok {
		return payout, fmt.Errorf("%w: id %d", ErrUnknownPlayer, playerID)
	}

	for _, hexID := range sortedKeys(vertex.Hexes) {
		hex := g.Board.Hexes[hexID]
		if hex.Resource == board.Wasteland || g.Bank[hex.Resource] <= 0 {
			continue
		}
		player.Resources[hex.Resource]++
		g.Bank[hex.Resource]--
		payout[hex.Resource]++
	}
	return payout, nil
}

// SetupEvent records one player's initial placement.
type SetupEvent struct {
	PlayerID          int
	SettlementVertex  int
	RoadEdge          int
	StartingResources ResourceCounts
}

// AutoInitialSetup runs the full snake placement automatically, taking
// the first legal vertex for each settlement (port-adjacent vertices
// considered first when preferPorts is set) and the first legal
// adjacent edge for each road. Second settlements collect starting
// resources.
func (g *Game) AutoInitialSetup(preferPorts bool) ([]SetupEvent, error) {
	var events []SetupEvent
	placements := make(map[int]int, len(g.Players))

	for _, playerID := range InitialPlacementOrder(g.TurnOrder) {
		candidates := g.Board.SortedVertexIDs()
		if preferPorts {
			var withPorts, withoutPorts []int
			for _, vertexID := range candidates {
				if len(g.Board.PortsForVertex(vertexID)) > 0 {
					withPorts = append(withPorts, vertexID)
				} else {
					withoutPorts = append(withoutPorts, vertexID)
				}
			}
			candidates = append(withPorts, withoutPorts...)
		}

		settlementVertex := -1
		for _, vertexID := range candidates {
			if g.Board.CanPlaceSettlement(vertexID, playerID, false) {
				settlementVertex = vertexID
				break
			}
		}
		if settlementVertex == -1 {
			return events, fmt.Errorf("%w: no legal initial settlement for player %d", ErrIllegalPlacement, playerID)
		}
		if err := g.PlaceInitialSettlement(playerID, settlementVertex); err != nil {
			return events, err
		}

		roadEdge := -1
		for _, edgeID := range sortedKeys(g.Board.Vertices[settlementVertex].AdjacentEdges) {
			if g.Board.CanPlaceRoad(edgeID, playerID) {
				roadEdge = edgeID
				break
			}
		}
		if roadEdge == -1 {
			return events, fmt.Errorf("%w: no legal initial road for player %d", ErrIllegalPlacement, playerID)
		}
		if err := g.PlaceInitialRoad(playerID, roadEdge); err != nil {
			return events, err
		}

		placements[playerID]++
		var payout ResourceCounts
		if placements[playerID] == 2 {
			var err error
			payout, err = g.GrantStartingResources(playerID, settlementVertex)
			if err != nil {
				return events, err
			}
		}

		events = append(events, SetupEvent{
			PlayerID:          playerID,
			SettlementVertex:  settlementVertex,
			RoadEdge:          roadEdge,
			StartingResources: payout,
		})
	}

	return events, nil
}
