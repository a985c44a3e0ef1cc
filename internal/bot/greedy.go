// Package bot provides a heuristic automated player. It drives the
// rules engine through the same public command surface as any other
// caller and holds no private state channel into it; every random
// outcome it triggers flows through the engine's own seeded stream.
package bot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/hex-settlers/internal/board"
	"github.com/talgya/hex-settlers/internal/game"
)

// Greedy plays a simple resource-maximizing strategy: resolve whatever
// the dice forced, trade toward the most valuable affordable build
// target, play at most one held card, then build until out of options.
type Greedy struct {
	// MaxBuildActions caps build attempts per turn.
	MaxBuildActions int
}

// New returns a Greedy bot with default settings.
func New() *Greedy {
	return &Greedy{MaxBuildActions: 3}
}

// TurnReport summarizes what the bot did on one turn.
type TurnReport struct {
	PlayerID int
	Events   []string
	GameOver bool
}

// TakeTurn plays one full turn for the current player.
func (b *Greedy) TakeTurn(g *game.Game, playerID int) (*TurnReport, error) {
	if g.CurrentPlayer().ID != playerID {
		return nil, fmt.Errorf("bot can only act for the current player")
	}

	report := &TurnReport{PlayerID: playerID}
	roll, err := g.RollForTurn(playerID)
	if err != nil {
		return nil, err
	}
	report.Events = append(report.Events, fmt.Sprintf("rolled %d+%d=%d", roll.Roll.D1, roll.Roll.D2, roll.Total))

	if g.Phase == game.PhaseRobber {
		b.resolveRobberPhase(g, playerID, report)
	}
	if g.Phase == game.PhaseTrade {
		b.tradePhase(g, playerID, report)
	}
	if g.Phase == game.PhaseBuild {
		b.buildPhase(g, playerID, report)
	}

	if !g.GameOver {
		if _, err := g.EndTurn(playerID); err != nil {
			return nil, err
		}
		report.Events = append(report.Events, "ended turn")
	} else {
		report.Events = append(report.Events, "won game")
	}
	report.GameOver = g.GameOver
	return report, nil
}

// resolveRobberPhase clears everyone's discards, then moves the robber
// to the hex with the most eligible victims.
func (b *Greedy) resolveRobberPhase(g *game.Game, playerID int, report *TurnReport) {
	for _, owingID := range sortedIntKeys(g.PendingDiscards) {
		discarded, err := g.AutoDiscardForSeven(owingID)
		if err != nil {
			continue
		}
		if len(discarded) > 0 {
			report.Events = append(report.Events, fmt.Sprintf("player %d discarded %d", owingID, len(discarded)))
		}
	}

	targetHex, victim, ok := bestRobberTarget(g, playerID)
	if !ok {
		return
	}
	result, err := g.ResolveRobberAfterSeven(playerID, targetHex, victim)
	if err != nil {
		return
	}
	event := fmt.Sprintf("moved robber to %d", result.TargetHex)
	if result.Stolen != nil {
		event += fmt.Sprintf(", stole %s", *result.Stolen)
	}
	report.Events = append(report.Events, event)
}

// bestRobberTarget picks the target hex with the most eligible victims,
// breaking ties on the lower hex id, and its first victim.
func bestRobberTarget(g *game.Game, playerID int) (hexID, victim int, ok bool) {
	options := g.RobberMoveOptions(playerID)
	if len(options) == 0 {
		return 0, game.NoPlayer, false
	}

	hexID = -1
	bestVictims := -1
	for _, candidate := range sortedIntKeys(options) {
		if len(options[candidate]) > bestVictims {
			bestVictims = len(options[candidate])
			hexID = candidate
		}
	}

	victim = game.NoPlayer
	if len(options[hexID]) > 0 {
		victim = options[hexID][0]
	}
	return hexID, victim, true
}

// tradePhase trades toward build goals in descending value order, then
// closes the trade window.
func (b *Greedy) tradePhase(g *game.Game, playerID int, report *TurnReport) {
	player := g.Players[playerID]
	goals := []game.ResourceCounts{game.CityCost, game.SettlementCost, game.RoadCost, game.DevCardCost}

	for _, goal := range goals {
		for attempt := 0; attempt < 2; attempt++ {
			if player.CanAfford(goal) {
				break
			}
			if !b.tradeTowardCost(g, playerID, goal) {
				break
			}
			report.Events = append(report.Events, "traded with bank")
		}
	}

	if g.Phase == game.PhaseTrade {
		g.FinishTradePhase(playerID)
	}
}

// tradeTowardCost surrenders the bot's most abundant spare resource for
// one unit of a deficit resource, at the best earned rate.
func (b *Greedy) tradeTowardCost(g *game.Game, playerID int, cost game.ResourceCounts) bool {
	player := g.Players[playerID]

	var deficits []board.Resource
	for i, amount := range cost {
		r := board.Resource(i)
		if player.Resources.Get(r) < amount {
			deficits = append(deficits, r)
		}
	}
	if len(deficits) == 0 {
		return false
	}

	for _, need := range deficits {
		gives := make([]board.Resource, 0, board.NumProductive)
		for _, r := range board.ProductiveResources {
			if r != need {
				gives = append(gives, r)
			}
		}
		sort.SliceStable(gives, func(i, j int) bool {
			return player.Resources[gives[i]] > player.Resources[gives[j]]
		})

		for _, give := range gives {
			rate := g.BestTradeRate(playerID, give)
			if player.Resources[give] < rate || g.Bank[need] < 1 {
				continue
			}
			if err := g.TradeWithBank(playerID, give, need, 0); err == nil {
				return true
			}
		}
	}
	return false
}

// buildPhase plays a held card if possible, then takes up to
// MaxBuildActions build actions.
func (b *Greedy) buildPhase(g *game.Game, playerID int, report *TurnReport) {
	b.playHeldCard(g, playerID, report)

	for i := 0; i < b.MaxBuildActions; i++ {
		if g.GameOver {
			return
		}
		if !b.takeOneBuildAction(g, playerID, report) {
			return
		}
	}
}

// playHeldCard plays the first card that is neither a Victory Point nor
// bought this turn. Any failure is silently ignored; card plays are
// opportunistic.
func (b *Greedy) playHeldCard(g *game.Game, playerID int, report *TurnReport) {
	player := g.Players[playerID]
	fresh := make(map[game.DevCard]bool)
	for _, card := range g.NewCardsThisTurn[playerID] {
		fresh[card] = true
	}

	var card game.DevCard
	found := false
	for _, held := range player.DevelopmentCards {
		if held == game.VictoryPointCard || fresh[held] {
			continue
		}
		card = held
		found = true
		break
	}
	if !found {
		return
	}

	switch card {
	case game.Knight:
		targetHex, victim, ok := bestRobberTarget(g, playerID)
		if !ok {
			return
		}
		if _, err := g.PlayDevelopmentCard(playerID, game.KnightPlay{TargetHex: targetHex, Victim: victim}); err == nil {
			report.Events = append(report.Events, "played Knight")
		}

	case game.RoadBuilding:
		var edges []int
		for _, edgeID := range g.Board.SortedEdgeIDs() {
			if g.Board.CanPlaceRoad(edgeID, playerID) {
				edges = append(edges, edgeID)
				if len(edges) == 2 {
					break
				}
			}
		}
		if len(edges) < 2 {
			return
		}
		if _, err := g.PlayDevelopmentCard(playerID, game.RoadBuildingPlay{Edges: [2]int{edges[0], edges[1]}}); err == nil {
			report.Events = append(report.Events, "played Road Building")
		}

	case game.YearOfPlenty:
		scarce := append([]board.Resource(nil), board.ProductiveResources[:]...)
		sort.SliceStable(scarce, func(i, j int) bool {
			return player.Resources[scarce[i]] < player.Resources[scarce[j]]
		})
		if _, err := g.PlayDevelopmentCard(playerID, game.YearOfPlentyPlay{Resources: [2]board.Resource{scarce[0], scarce[1]}}); err == nil {
			report.Events = append(report.Events, "played Year of Plenty")
		}

	case game.Monopoly:
		best := board.Timber
		bestHeld := -1
		for _, r := range board.ProductiveResources {
			held := 0
			for _, otherID := range g.PlayerIDs() {
				if otherID != playerID {
					held += g.Players[otherID].Resources[r]
				}
			}
			if held > bestHeld {
				bestHeld = held
				best = r
			}
		}
		if _, err := g.PlayDevelopmentCard(playerID, game.MonopolyPlay{Resource: best}); err == nil {
			report.Events = append(report.Events, "played Monopoly")
		}
	}
}

// takeOneBuildAction tries, in order: city upgrade, settlement, road,
// development card.
func (b *Greedy) takeOneBuildAction(g *game.Game, playerID int, report *TurnReport) bool {
	player := g.Players[playerID]

	if len(player.Settlements) > 0 && player.CanAfford(game.CityCost) {
		for _, vertexID := range sortedIntKeys(player.Settlements) {
			if err := g.UpgradeToCity(playerID, vertexID); err == nil {
				report.Events = append(report.Events, fmt.Sprintf("upgraded city at %d", vertexID))
				return true
			}
		}
	}

	if player.CanAfford(game.SettlementCost) {
		for _, vertexID := range g.Board.SortedVertexIDs() {
			if !g.Board.CanPlaceSettlement(vertexID, playerID, true) {
				continue
			}
			if err := g.PlaceSettlement(playerID, vertexID); err == nil {
				report.Events = append(report.Events, fmt.Sprintf("built settlement at %d", vertexID))
				return true
			}
		}
	}

	if player.CanAfford(game.RoadCost) {
		for _, edgeID := range g.Board.SortedEdgeIDs() {
			if !g.Board.CanPlaceRoad(edgeID, playerID) {
				continue
			}
			if err := g.PlaceRoad(playerID, edgeID); err == nil {
				report.Events = append(report.Events, fmt.Sprintf("built road at %d", edgeID))
				return true
			}
		}
	}

	if player.CanAfford(game.DevCardCost) {
		card, err := g.BuyDevelopmentCard(playerID)
		if err == nil {
			report.Events = append(report.Events, fmt.Sprintf("bought dev card %s", card))
			return true
		}
		if !errors.Is(err, game.ErrEmptyDeck) {
			return false
		}
	}

	return false
}

func sortedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
