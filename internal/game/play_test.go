package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-settlers/internal/board"
)

// holdCard puts a playable card in the player's hand without touching
// the deck or the bought-this-turn ledger.
func holdCard(g *Game, playerID int, card DevCard) {
	g.Players[playerID].DevelopmentCards = append(g.Players[playerID].DevelopmentCards, card)
}

func intoBuild(t *testing.T) *Game {
	t.Helper()
	g := newTestGame(t)
	g.Phase = PhaseBuild
	return g
}

func TestPlayDevelopmentCardGates(t *testing.T) {
	t.Run("requires the build phase", func(t *testing.T) {
		g := newTestGame(t)
		holdCard(g, 0, Knight)
		_, err := g.PlayDevelopmentCard(0, KnightPlay{TargetHex: 0, Victim: NoPlayer})
		require.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("requires the card in hand", func(t *testing.T) {
		g := intoBuild(t)
		_, err := g.PlayDevelopmentCard(0, MonopolyPlay{Resource: board.Grain})
		require.ErrorIs(t, err, ErrInvalidCardPlay)
	})

	t.Run("victory point cards are never playable", func(t *testing.T) {
		g := intoBuild(t)
		holdCard(g, 0, VictoryPointCard)
		_, err := g.PlayDevelopmentCard(0, fakeVictoryPlay{})
		require.ErrorIs(t, err, ErrInvalidCardPlay)
	})

	t.Run("one card per turn", func(t *testing.T) {
		g := intoBuild(t)
		holdCard(g, 0, Monopoly)
		holdCard(g, 0, Monopoly)

		_, err := g.PlayDevelopmentCard(0, MonopolyPlay{Resource: board.Grain})
		require.NoError(t, err)
		_, err = g.PlayDevelopmentCard(0, MonopolyPlay{Resource: board.Iron})
		require.ErrorIs(t, err, ErrInvalidCardPlay)
	})

	t.Run("cannot play a card bought this turn", func(t *testing.T) {
		g := intoBuild(t)
		grantFromBank(t, g, 0, DevCardCost)
		g.DevelopmentDeck = append(g.DevelopmentDeck, Monopoly)
		card, err := g.BuyDevelopmentCard(0)
		require.NoError(t, err)
		require.Equal(t, Monopoly, card)

		_, err = g.PlayDevelopmentCard(0, MonopolyPlay{Resource: board.Grain})
		require.ErrorIs(t, err, ErrInvalidCardPlay)

		// Next turn the same card is live.
		_, err = g.EndTurn(0)
		require.NoError(t, err)
		g.CurrentTurnIndex = 0
		g.Phase = PhaseBuild
		_, err = g.PlayDevelopmentCard(0, MonopolyPlay{Resource: board.Grain})
		require.NoError(t, err)
	})

	t.Run("failed play returns the card to the hand", func(t *testing.T) {
		g := intoBuild(t)
		holdCard(g, 0, Knight)

		_, err := g.PlayDevelopmentCard(0, KnightPlay{TargetHex: g.RobberHex, Victim: NoPlayer})
		require.ErrorIs(t, err, ErrInvalidTarget)
		require.True(t, g.Players[0].HasCard(Knight))
		require.False(t, g.DevCardPlayedThisTurn)
	})
}

// fakeVictoryPlay exists only to exercise the Victory Point rejection.
type fakeVictoryPlay struct{}

func (fakeVictoryPlay) Card() DevCard { return VictoryPointCard }

func TestPlayKnight(t *testing.T) {
	g := intoBuild(t)
	hex := victimHex(t, g, 1)
	grantFromBank(t, g, 1, ResourceCounts{board.Iron: 2})
	holdCard(g, 0, Knight)

	result, err := g.PlayDevelopmentCard(0, KnightPlay{TargetHex: hex.ID, Victim: 1})
	require.NoError(t, err)
	require.Equal(t, Knight, result.Card)
	require.Equal(t, 1, result.PlayedKnights)
	require.NotNil(t, result.Robber)
	require.Equal(t, board.Iron, *result.Robber.Stolen)
	require.Equal(t, hex.ID, g.RobberHex)
	require.Equal(t, 1, g.PlayedKnights[0])
	require.False(t, g.Players[0].HasCard(Knight))
	require.True(t, g.DevCardPlayedThisTurn)
	requireBankConservation(t, g)
}

func TestPlayRoadBuilding(t *testing.T) {
	t.Run("places two free roads", func(t *testing.T) {
		g := intoBuild(t)
		vertexID, edgeID := placeStartingPair(t, g, 0)
		holdCard(g, 0, RoadBuilding)

		// Two more edges continuing from the start vertex.
		first := -1
		for _, candidate := range sortedKeys(g.Board.Vertices[vertexID].AdjacentEdges) {
			if g.Board.CanPlaceRoad(candidate, 0) {
				first = candidate
				break
			}
		}
		require.NotEqual(t, -1, first)
		firstEdge := g.Board.Edges[first]
		second := -1
		for _, endpoint := range [2]int{firstEdge.V1, firstEdge.V2} {
			for _, candidate := range sortedKeys(g.Board.Vertices[endpoint].AdjacentEdges) {
				if candidate == first || candidate == edgeID {
					continue
				}
				if !g.Board.Edges[candidate].Occupied() {
					second = candidate
					break
				}
			}
			if second != -1 {
				break
			}
		}
		require.NotEqual(t, -1, second)

		result, err := g.PlayDevelopmentCard(0, RoadBuildingPlay{Edges: [2]int{first, second}})
		require.NoError(t, err)
		require.Equal(t, []int{first, second}, result.PlacedEdges)
		require.Equal(t, 0, g.Board.Edges[first].Owner)
		require.Equal(t, 0, g.Board.Edges[second].Owner)
		require.Zero(t, g.Players[0].Resources.Total(), "roads are free")
	})

	t.Run("illegal second road undoes the first", func(t *testing.T) {
		g := intoBuild(t)
		vertexID, _ := placeStartingPair(t, g, 0)
		holdCard(g, 0, RoadBuilding)

		first := -1
		for _, candidate := range sortedKeys(g.Board.Vertices[vertexID].AdjacentEdges) {
			if g.Board.CanPlaceRoad(candidate, 0) {
				first = candidate
				break
			}
		}
		require.NotEqual(t, -1, first)

		// An edge disconnected from the network.
		disconnected := -1
		ids := g.Board.SortedEdgeIDs()
		for i := len(ids) - 1; i >= 0; i-- {
			if !g.Board.Edges[ids[i]].Occupied() && !g.Board.CanPlaceRoad(ids[i], 0) {
				disconnected = ids[i]
				break
			}
		}
		require.NotEqual(t, -1, disconnected)

		_, err := g.PlayDevelopmentCard(0, RoadBuildingPlay{Edges: [2]int{first, disconnected}})
		require.ErrorIs(t, err, ErrIllegalPlacement)
		require.Equal(t, board.NoOwner, g.Board.Edges[first].Owner)
		require.False(t, g.Players[0].Roads[first])
		require.True(t, g.Players[0].HasCard(RoadBuilding))
		require.Equal(t, 1, g.LongestRoadLengths[0], "only the setup road remains")
	})
}

func TestPlayYearOfPlenty(t *testing.T) {
	t.Run("grants both resources", func(t *testing.T) {
		g := intoBuild(t)
		holdCard(g, 0, YearOfPlenty)

		result, err := g.PlayDevelopmentCard(0, YearOfPlentyPlay{
			Resources: [2]board.Resource{board.Grain, board.Grain},
		})
		require.NoError(t, err)
		require.Equal(t, []board.Resource{board.Grain, board.Grain}, result.Granted)
		require.Equal(t, 2, g.Players[0].Resources[board.Grain])
		require.Equal(t, 17, g.Bank[board.Grain])
		requireBankConservation(t, g)
	})

	t.Run("fails atomically when the bank runs dry", func(t *testing.T) {
		g := intoBuild(t)
		holdCard(g, 0, YearOfPlenty)
		grantFromBank(t, g, 1, ResourceCounts{board.Iron: 18})

		_, err := g.PlayDevelopmentCard(0, YearOfPlentyPlay{
			Resources: [2]board.Resource{board.Iron, board.Iron},
		})
		require.ErrorIs(t, err, ErrInvalidCardPlay)
		require.Zero(t, g.Players[0].Resources[board.Iron])
		require.Equal(t, 1, g.Bank[board.Iron], "first grant rolled back")
		require.True(t, g.Players[0].HasCard(YearOfPlenty))
		requireBankConservation(t, g)
	})
}

func TestPlayMonopoly(t *testing.T) {
	g := intoBuild(t)
	holdCard(g, 0, Monopoly)
	grantFromBank(t, g, 1, ResourceCounts{board.Meat: 3})
	grantFromBank(t, g, 2, ResourceCounts{board.Meat: 2, board.Grain: 1})
	bankBefore := g.Bank[board.Meat]

	result, err := g.PlayDevelopmentCard(0, MonopolyPlay{Resource: board.Meat})
	require.NoError(t, err)
	require.Equal(t, 5, result.StolenTotal)
	require.Equal(t, board.Meat, result.Resource)
	require.Equal(t, 5, g.Players[0].Resources[board.Meat])
	require.Zero(t, g.Players[1].Resources[board.Meat])
	require.Zero(t, g.Players[2].Resources[board.Meat])
	require.Equal(t, 1, g.Players[2].Resources[board.Grain], "other holdings untouched")
	require.Equal(t, bankBefore, g.Bank[board.Meat], "bank untouched")
	requireBankConservation(t, g)
}
