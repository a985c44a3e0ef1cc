package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hex-settlers/internal/board"
)

// playTurns drives the game through a fixed script for a few turns so
// snapshots capture a mid-game state. All decisions are deterministic.
func playTurns(t *testing.T, g *Game, turns int) {
	t.Helper()
	for i := 0; i < turns && !g.GameOver; i++ {
		current := g.CurrentPlayer().ID
		result, err := g.RollForTurn(current)
		require.NoError(t, err)

		if result.Total == 7 {
			for _, id := range g.PlayerIDs() {
				if g.PendingDiscards[id] > 0 {
					_, err := g.AutoDiscardForSeven(id)
					require.NoError(t, err)
				}
			}
			_, err := g.ResolveRobberAfterSeven(current, g.RobberTargetHexes()[0], NoPlayer)
			require.NoError(t, err)
		}

		require.NoError(t, g.FinishTradePhase(current))
		_, err = g.EndTurn(current)
		require.NoError(t, err)
	}
}

func midGame(t *testing.T) *Game {
	t.Helper()
	g, err := New([]string{"Alice", "Bram", "Cleo"}, 2, 99, nil)
	require.NoError(t, err)
	_, err = g.AutoInitialSetup(true)
	require.NoError(t, err)
	playTurns(t, g, 12)
	return g
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Run("fresh game", func(t *testing.T) {
		g := newTestGame(t)

		restored, err := FromSnapshot(g.Snapshot())
		require.NoError(t, err)
		require.Equal(t, g.Snapshot(), restored.Snapshot())
	})

	t.Run("mid-game state", func(t *testing.T) {
		g := midGame(t)

		snap := g.Snapshot()
		restored, err := FromSnapshot(snap)
		require.NoError(t, err)

		require.Equal(t, snap, restored.Snapshot())
		require.Equal(t, g.Phase, restored.Phase)
		require.Equal(t, g.TurnNumber, restored.TurnNumber)
		require.Equal(t, g.RobberHex, restored.RobberHex)
		for _, id := range g.PlayerIDs() {
			require.Equal(t, g.Players[id].Resources, restored.Players[id].Resources)
			require.Equal(t, g.Players[id].VictoryPoints, restored.Players[id].VictoryPoints)
			require.Equal(t, g.Players[id].Settlements, restored.Players[id].Settlements)
			require.Equal(t, g.Players[id].Roads, restored.Players[id].Roads)
		}
		require.Equal(t, g.DevelopmentDeck, restored.DevelopmentDeck)
		requireBankConservation(t, restored)
	})

	t.Run("survives JSON encoding", func(t *testing.T) {
		g := midGame(t)
		snap := g.Snapshot()

		raw, err := json.Marshal(snap)
		require.NoError(t, err)

		var decoded Snapshot
		require.NoError(t, json.Unmarshal(raw, &decoded))

		restored, err := FromSnapshot(&decoded)
		require.NoError(t, err)
		require.Equal(t, snap, restored.Snapshot())
	})

	t.Run("preserves the port layout", func(t *testing.T) {
		g := midGame(t)
		restored, err := FromSnapshot(g.Snapshot())
		require.NoError(t, err)

		require.Equal(t, len(g.Board.Ports), len(restored.Board.Ports))
		for _, portID := range g.Board.SortedPortIDs() {
			want := g.Board.Ports[portID]
			got := restored.Board.Ports[portID]
			require.Equal(t, want.EdgeID, got.EdgeID)
			require.Equal(t, want.Rate, got.Rate)
			if want.Resource == nil {
				require.Nil(t, got.Resource)
			} else {
				require.Equal(t, *want.Resource, *got.Resource)
			}
		}
	})

	t.Run("restored game keeps playing", func(t *testing.T) {
		g := midGame(t)
		restored, err := FromSnapshot(g.Snapshot())
		require.NoError(t, err)

		playTurns(t, restored, 3)
		requireBankConservation(t, restored)
	})
}

func TestSnapshotValidation(t *testing.T) {
	t.Run("rejects sparse player ids", func(t *testing.T) {
		g := newTestGame(t)
		snap := g.Snapshot()
		snap.Players[7] = snap.Players[2]
		delete(snap.Players, 2)

		_, err := FromSnapshot(snap)
		require.ErrorContains(t, err, "dense")
	})

	t.Run("rejects unknown phase", func(t *testing.T) {
		g := newTestGame(t)
		snap := g.Snapshot()
		snap.Phase = "LIMBO"

		_, err := FromSnapshot(snap)
		require.ErrorContains(t, err, "unknown phase")
	})

	t.Run("rejects unknown card names", func(t *testing.T) {
		g := newTestGame(t)
		snap := g.Snapshot()
		snap.DevelopmentDeck[0] = "Wizard"

		_, err := FromSnapshot(snap)
		require.ErrorContains(t, err, "unknown development card")
	})

	t.Run("rejects unknown resources", func(t *testing.T) {
		g := newTestGame(t)
		snap := g.Snapshot()
		snap.Bank["Gold"] = 3

		_, err := FromSnapshot(snap)
		require.ErrorContains(t, err, "unknown bank resource")
	})
}

func TestDeterministicReplay(t *testing.T) {
	run := func(seed int64) *Snapshot {
		g, err := New([]string{"Alice", "Bram"}, 2, seed, nil)
		require.NoError(t, err)
		_, err = g.AutoInitialSetup(false)
		require.NoError(t, err)
		playTurns(t, g, 10)
		return g.Snapshot()
	}

	t.Run("same seed, same trace", func(t *testing.T) {
		require.Equal(t, run(7), run(7))
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		a, b := run(7), run(8)
		require.NotEqual(t, a.DiceHistory, b.DiceHistory)
	})
}

func TestSnapshotOverlay(t *testing.T) {
	// Board mutations that diverge from generation must survive the
	// round trip through the overlay.
	g := newTestGame(t)
	hexID := g.Board.SortedHexIDs()[0]
	g.Board.Hexes[hexID].Resource = board.Grain
	g.Board.Hexes[hexID].Token = 6

	restored, err := FromSnapshot(g.Snapshot())
	require.NoError(t, err)
	require.Equal(t, board.Grain, restored.Board.Hexes[hexID].Resource)
	require.Equal(t, 6, restored.Board.Hexes[hexID].Token)
}
