package game

import (
	"fmt"

	"github.com/talgya/hex-settlers/internal/board"
)

// PlayDevelopmentCard plays one card from the player's hand during the
// BUILD phase. At most one card can be played per turn, a card cannot
// be played on the turn it was bought, and Victory Point cards are
// never actively playable. Each effect is transactional: if any step
// fails, prior steps of the same play are undone and the card returns
// to the hand.
func (g *Game) PlayDevelopmentCard(playerID int, play CardPlay) (*CardPlayResult, error) {
	if err := g.ensureActive(); err != nil {
		return nil, err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return nil, err
	}
	if err := g.requirePhase(PhaseBuild); err != nil {
		return nil, err
	}
	if g.DevCardPlayedThisTurn {
		return nil, fmt.Errorf("%w: only one development card per turn", ErrInvalidCardPlay)
	}

	card := play.Card()
	player := g.Players[playerID]
	if !player.HasCard(card) {
		return nil, fmt.Errorf("%w: no %s in hand", ErrInvalidCardPlay, card)
	}
	if card == VictoryPointCard {
		return nil, fmt.Errorf("%w: Victory Point cards score when drawn", ErrInvalidCardPlay)
	}
	for _, bought := range g.NewCardsThisTurn[playerID] {
		if bought == card {
			return nil, fmt.Errorf("%w: cannot play a card bought this turn", ErrInvalidCardPlay)
		}
	}

	player.removeCard(card)

	result, err := g.applyCardPlay(playerID, play)
	if err != nil {
		player.DevelopmentCards = append(player.DevelopmentCards, card)
		return nil, err
	}

	g.DevCardPlayedThisTurn = true
	return result, nil
}

func (g *Game) applyCardPlay(playerID int, play CardPlay) (*CardPlayResult, error) {
	switch p := play.(type) {
	case KnightPlay:
		return g.playKnight(playerID, p)
	case RoadBuildingPlay:
		return g.playRoadBuilding(playerID, p)
	case YearOfPlentyPlay:
		return g.playYearOfPlenty(playerID, p)
	case MonopolyPlay:
		return g.playMonopoly(playerID, p)
	default:
		return nil, fmt.Errorf("%w: unsupported card %s", ErrInvalidCardPlay, play.Card())
	}
}

// playKnight performs a robber move outside the ROBBER phase and counts
// toward the largest-army award.
func (g *Game) playKnight(playerID int, play KnightPlay) (*CardPlayResult, error) {
	robber, err := g.MoveRobberAndSteal(playerID, play.TargetHex, play.Victim)
	if err != nil {
		return nil, err
	}

	g.PlayedKnights[playerID]++
	g.recomputeLargestArmy()

	return &CardPlayResult{
		Card:          Knight,
		Robber:        robber,
		PlayedKnights: g.PlayedKnights[playerID],
	}, nil
}

// playRoadBuilding places two free roads in order, undoing both if
// either placement is illegal.
func (g *Game) playRoadBuilding(playerID int, play RoadBuildingPlay) (*CardPlayResult, error) {
	var placed []int
	for _, edgeID := range play.Edges {
		if !g.Board.CanPlaceRoad(edgeID, playerID) {
			for _, undoID := range placed {
				g.removeRoad(playerID, undoID)
			}
			if len(placed) > 0 {
				g.recomputeLongestRoad()
			}
			return nil, fmt.Errorf("%w: road at edge %d", ErrIllegalPlacement, edgeID)
		}
		g.placeRoadUnchecked(playerID, edgeID)
		placed = append(placed, edgeID)
	}

	return &CardPlayResult{Card: RoadBuilding, PlacedEdges: placed}, nil
}

// playYearOfPlenty grants one of each chosen resource from the bank,
// failing atomically if the bank lacks either.
func (g *Game) playYearOfPlenty(playerID int, play YearOfPlentyPlay) (*CardPlayResult, error) {
	player := g.Players[playerID]

	var granted []board.Resource
	rollback := func() {
		for _, r := range granted {
			player.Resources[r]--
			g.Bank[r]++
		}
	}

	for _, r := range play.Resources {
		if !r.Productive() {
			rollback()
			return nil, fmt.Errorf("%w: %s cannot be collected", ErrInvalidCardPlay, r)
		}
		if g.Bank[r] < 1 {
			rollback()
			return nil, fmt.Errorf("%w: bank has no %s", ErrInvalidCardPlay, r)
		}
		g.Bank[r]--
		player.Resources[r]++
		granted = append(granted, r)
	}

	return &CardPlayResult{Card: YearOfPlenty, Granted: granted}, nil
}

// playMonopoly transfers every other player's holding of the resource
// to the active player. Zero-holding opponents contribute nothing; the
// bank is untouched.
func (g *Game) playMonopoly(playerID int, play MonopolyPlay) (*CardPlayResult, error) {
	if !play.Resource.Productive() {
		return nil, fmt.Errorf("%w: %s cannot be monopolized", ErrInvalidCardPlay, play.Resource)
	}

	player := g.Players[playerID]
	stolen := 0
	for _, otherID := range g.PlayerIDs() {
		if otherID == playerID {
			continue
		}
		other := g.Players[otherID]
		amount := other.Resources[play.Resource]
		if amount <= 0 {
			continue
		}
		other.Resources[play.Resource] -= amount
		player.Resources[play.Resource] += amount
		stolen += amount
	}

	return &CardPlayResult{Card: Monopoly, Resource: play.Resource, StolenTotal: stolen}, nil
}
