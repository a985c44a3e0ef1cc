package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-settlers/internal/board"
)

// findPath searches for a simple path of n unoccupied edges starting at
// the given vertex, returning the edge ids and the visited vertices in
// walk order (n+1 vertices for n edges).
func findPath(g *Game, start, n int) ([]int, []int) {
	var edges []int
	vertices := []int{start}
	visited := map[int]bool{start: true}

	var walk func(current int) bool
	walk = func(current int) bool {
		if len(edges) == n {
			return true
		}
		for _, edgeID := range sortedKeys(g.Board.Vertices[current].AdjacentEdges) {
			edge := g.Board.Edges[edgeID]
			if edge.Occupied() {
				continue
			}
			next := edge.V2
			if edge.V1 != current {
				next = edge.V1
			}
			if visited[next] {
				continue
			}

			edges = append(edges, edgeID)
			vertices = append(vertices, next)
			visited[next] = true
			if walk(next) {
				return true
			}
			edges = edges[:len(edges)-1]
			vertices = vertices[:len(vertices)-1]
			delete(visited, next)
		}
		return false
	}

	if !walk(start) {
		return nil, nil
	}
	return edges, vertices
}

// layRoads claims every listed edge for the player through the regular
// placement path so award recomputation fires.
func layRoads(t *testing.T, g *Game, playerID int, edges []int) {
	t.Helper()
	for _, edgeID := range edges {
		g.placeRoadUnchecked(playerID, edgeID)
	}
}

func TestLongestRoadLength(t *testing.T) {
	t.Run("no roads means zero", func(t *testing.T) {
		g := newTestGame(t)
		require.Zero(t, g.longestRoadForPlayer(0))
	})

	t.Run("a simple chain counts its edges", func(t *testing.T) {
		g := newTestGame(t)
		edges, _ := findPath(g, 0, 4)
		require.Len(t, edges, 4)
		layRoads(t, g, 0, edges)

		require.Equal(t, 4, g.LongestRoadLengths[0])
		require.Equal(t, NoPlayer, g.LongestRoadHolder, "below the award minimum")
		require.Zero(t, g.Players[0].VictoryPoints)
	})

	t.Run("disconnected segments count separately", func(t *testing.T) {
		g := newTestGame(t)
		edges, vertices := findPath(g, 0, 3)
		require.Len(t, edges, 3)
		layRoads(t, g, 0, edges)

		// A second segment at least three steps away, so a two-edge
		// path from it cannot reach back into the first.
		near := make(map[int]bool)
		frontier := append([]int(nil), vertices...)
		for step := 0; step < 3; step++ {
			var next []int
			for _, v := range frontier {
				if near[v] {
					continue
				}
				near[v] = true
				next = append(next, sortedKeys(g.Board.Vertices[v].AdjacentVertices)...)
			}
			frontier = next
		}
		far := -1
		ids := g.Board.SortedVertexIDs()
		for i := len(ids) - 1; i >= 0; i-- {
			if !near[ids[i]] {
				far = ids[i]
				break
			}
		}
		require.NotEqual(t, -1, far)
		moreEdges, _ := findPath(g, far, 2)
		require.Len(t, moreEdges, 2)
		layRoads(t, g, 0, moreEdges)

		require.Equal(t, 3, g.LongestRoadLengths[0])
	})

	t.Run("opponent settlement splits the path", func(t *testing.T) {
		g := newTestGame(t)
		edges, vertices := findPath(g, 0, 6)
		require.Len(t, edges, 6)
		layRoads(t, g, 0, edges)
		require.Equal(t, 6, g.LongestRoadLengths[0])
		require.Equal(t, 0, g.LongestRoadHolder)
		require.Equal(t, 2, g.Players[0].VictoryPoints)

		// A building on the middle vertex cuts 6 into 3 + 3 and takes
		// the award away.
		mid := vertices[3]
		g.Board.Vertices[mid].Owner = 1
		g.Board.Vertices[mid].Level = board.LevelSettlement
		g.Players[1].Settlements[mid] = true
		g.recomputeLongestRoad()

		require.Equal(t, 3, g.LongestRoadLengths[0])
		require.Equal(t, NoPlayer, g.LongestRoadHolder)
		require.Zero(t, g.Players[0].VictoryPoints, "award revoked")
	})

	t.Run("own settlement does not block", func(t *testing.T) {
		g := newTestGame(t)
		edges, vertices := findPath(g, 0, 5)
		require.Len(t, edges, 5)
		layRoads(t, g, 0, edges)

		mid := vertices[2]
		g.Board.Vertices[mid].Owner = 0
		g.Board.Vertices[mid].Level = board.LevelSettlement
		g.Players[0].Settlements[mid] = true
		g.recomputeLongestRoad()

		require.Equal(t, 5, g.LongestRoadLengths[0])
	})
}

func TestLongestRoadAward(t *testing.T) {
	t.Run("first to five takes the award", func(t *testing.T) {
		g := newTestGame(t)
		edges, _ := findPath(g, 0, 5)
		layRoads(t, g, 0, edges)

		require.Equal(t, 0, g.LongestRoadHolder)
		require.Equal(t, 2, g.Players[0].VictoryPoints)
	})

	t.Run("a tie keeps the incumbent", func(t *testing.T) {
		g := newTestGame(t)
		edges, vertices := findPath(g, 0, 5)
		layRoads(t, g, 0, edges)

		far := farVertex(g, vertices)
		rivalEdges, _ := findPath(g, far, 5)
		require.Len(t, rivalEdges, 5)
		layRoads(t, g, 1, rivalEdges)

		require.Equal(t, 5, g.LongestRoadLengths[1])
		require.Equal(t, 0, g.LongestRoadHolder, "tie keeps the incumbent")
		require.Equal(t, 2, g.Players[0].VictoryPoints)
		require.Zero(t, g.Players[1].VictoryPoints)
	})

	t.Run("a strictly longer road transfers the award", func(t *testing.T) {
		g := newTestGame(t)
		edges, vertices := findPath(g, 0, 5)
		layRoads(t, g, 0, edges)

		far := farVertex(g, vertices)
		rivalEdges, _ := findPath(g, far, 6)
		require.Len(t, rivalEdges, 6)
		layRoads(t, g, 1, rivalEdges)

		require.Equal(t, 1, g.LongestRoadHolder)
		require.Zero(t, g.Players[0].VictoryPoints)
		require.Equal(t, 2, g.Players[1].VictoryPoints)
	})

	t.Run("a fresh tie with no incumbent elects nobody", func(t *testing.T) {
		g := newTestGame(t)

		// Both players reach five on the same recomputation.
		edges, vertices := findPath(g, 0, 5)
		for _, edgeID := range edges {
			g.Board.Edges[edgeID].Owner = 0
			g.Players[0].Roads[edgeID] = true
		}
		far := farVertex(g, vertices)
		rivalEdges, _ := findPath(g, far, 5)
		require.Len(t, rivalEdges, 5)
		for _, edgeID := range rivalEdges {
			g.Board.Edges[edgeID].Owner = 1
			g.Players[1].Roads[edgeID] = true
		}
		g.recomputeLongestRoad()

		require.Equal(t, NoPlayer, g.LongestRoadHolder)
		require.Zero(t, g.Players[0].VictoryPoints)
		require.Zero(t, g.Players[1].VictoryPoints)
	})
}

// farVertex returns a vertex not touching any of the given vertices.
func farVertex(g *Game, avoid []int) int {
	ids := g.Board.SortedVertexIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		candidate := ids[i]
		ok := true
		for _, v := range avoid {
			if v == candidate || g.Board.Vertices[v].AdjacentVertices[candidate] {
				ok = false
			}
		}
		if ok {
			return candidate
		}
	}
	return -1
}

func TestLargestArmyAward(t *testing.T) {
	t.Run("third knight takes the award", func(t *testing.T) {
		g := newTestGame(t)

		g.PlayedKnights[0] = 2
		g.recomputeLargestArmy()
		require.Equal(t, NoPlayer, g.LargestArmyHolder)

		g.PlayedKnights[0] = 3
		g.recomputeLargestArmy()
		require.Equal(t, 0, g.LargestArmyHolder)
		require.Equal(t, 2, g.Players[0].VictoryPoints)
	})

	t.Run("tie keeps the incumbent, strictly more transfers", func(t *testing.T) {
		g := newTestGame(t)
		g.PlayedKnights[0] = 3
		g.recomputeLargestArmy()

		g.PlayedKnights[1] = 3
		g.recomputeLargestArmy()
		require.Equal(t, 0, g.LargestArmyHolder)

		g.PlayedKnights[1] = 4
		g.recomputeLargestArmy()
		require.Equal(t, 1, g.LargestArmyHolder)
		require.Zero(t, g.Players[0].VictoryPoints)
		require.Equal(t, 2, g.Players[1].VictoryPoints)
	})
}

func TestAwardCanWinTheGame(t *testing.T) {
	g := newTestGame(t)
	g.Players[0].VictoryPoints = VictoryPointsToWin - 2

	edges, _ := findPath(g, 0, 5)
	layRoads(t, g, 0, edges)

	require.True(t, g.GameOver)
	require.Equal(t, 0, g.WinnerID)
}
