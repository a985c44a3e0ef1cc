package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-settlers/internal/board"
)

func TestInitialPlacementOrder(t *testing.T) {
	require.Equal(t, []int{0, 1, 2, 2, 1, 0}, InitialPlacementOrder([]int{0, 1, 2}))
	require.Equal(t, []int{0, 1, 1, 0}, InitialPlacementOrder([]int{0, 1}))
}

func TestGrantStartingResources(t *testing.T) {
	g := newTestGame(t)

	// A vertex touching only productive hexes, if one exists, pays one
	// card per hex.
	for _, vertexID := range g.Board.SortedVertexIDs() {
		vertex := g.Board.Vertices[vertexID]
		productive := 0
		allProductive := true
		for hexID := range vertex.Hexes {
			if g.Board.Hexes[hexID].Resource == board.Wasteland {
				allProductive = false
			} else {
				productive++
			}
		}
		if !allProductive || productive == 0 {
			continue
		}

		payout, err := g.GrantStartingResources(0, vertexID)
		require.NoError(t, err)
		require.Equal(t, productive, payout.Total())
		require.Equal(t, productive, g.Players[0].TotalResourceCards())
		requireBankConservation(t, g)
		return
	}
	t.Fatal("no fully productive vertex found")
}

func TestGrantStartingResourcesBankCap(t *testing.T) {
	g := newTestGame(t)

	vertexID := g.Board.SortedVertexIDs()[0]
	for hexID := range g.Board.Vertices[vertexID].Hexes {
		r := g.Board.Hexes[hexID].Resource
		if r != board.Wasteland {
			var counts ResourceCounts
			counts[r] = g.Bank[r]
			grantFromBank(t, g, 1, counts)
		}
	}

	payout, err := g.GrantStartingResources(0, vertexID)
	require.NoError(t, err)
	require.Zero(t, payout.Total(), "empty bank pays nothing")
}

func TestAutoInitialSetup(t *testing.T) {
	t.Run("every player gets two settlements and two roads", func(t *testing.T) {
		g := newTestGame(t)

		events, err := g.AutoInitialSetup(false)
		require.NoError(t, err)
		require.Len(t, events, 6)

		for _, id := range g.PlayerIDs() {
			player := g.Players[id]
			require.Len(t, player.Settlements, 2)
			require.Len(t, player.Roads, 2)
			require.Equal(t, 2, player.VictoryPoints)
		}
		requireBankConservation(t, g)
	})

	t.Run("snake order places middle players back to back", func(t *testing.T) {
		g := newTestGame(t)
		events, err := g.AutoInitialSetup(false)
		require.NoError(t, err)

		var order []int
		for _, event := range events {
			order = append(order, event.PlayerID)
		}
		require.Equal(t, []int{0, 1, 2, 2, 1, 0}, order)
	})

	t.Run("second settlement collects starting resources", func(t *testing.T) {
		g := newTestGame(t)
		events, err := g.AutoInitialSetup(false)
		require.NoError(t, err)

		seen := make(map[int]int)
		for _, event := range events {
			seen[event.PlayerID]++
			if seen[event.PlayerID] == 1 {
				require.Zero(t, event.StartingResources.Total())
			} else {
				require.Equal(t, event.StartingResources.Total(),
					g.Players[event.PlayerID].TotalResourceCards())
			}
		}
	})

	t.Run("placements respect the distance rule", func(t *testing.T) {
		g := newTestGame(t)
		_, err := g.AutoInitialSetup(true)
		require.NoError(t, err)

		for _, vertex := range g.Board.Vertices {
			if !vertex.Occupied() {
				continue
			}
			for neighborID := range vertex.AdjacentVertices {
				require.False(t, g.Board.Vertices[neighborID].Occupied(),
					"vertices %d and %d are both occupied", vertex.ID, neighborID)
			}
		}
	})

	t.Run("port preference lands the first settlement on a port", func(t *testing.T) {
		g := newTestGame(t)
		events, err := g.AutoInitialSetup(true)
		require.NoError(t, err)

		require.NotEmpty(t, g.Board.PortsForVertex(events[0].SettlementVertex))
	})
}
