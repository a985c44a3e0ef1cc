// Command autoplay runs bot-vs-bot games of the rules engine and
// prints the outcome. Useful for smoke-testing rule changes and for
// producing deterministic reference traces from a seed.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hex-settlers/internal/board"
	"github.com/talgya/hex-settlers/internal/bot"
	"github.com/talgya/hex-settlers/internal/game"
	"github.com/talgya/hex-settlers/internal/persistence"
)

func main() {
	seed := flag.Int64("seed", 42, "board and dice seed")
	players := flag.String("players", "Alice,Bram,Cleo", "comma-separated player names")
	radius := flag.Int("radius", 2, "board radius")
	maxTurns := flag.Int("turns", 200, "bot turns to play before giving up")
	boost := flag.Bool("boost", true, "grant each player 2 of every resource after setup")
	verbose := flag.Bool("v", false, "log every bot action")
	dbPath := flag.String("db", "", "save the final state to this database")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	names := strings.Split(*players, ",")
	g, err := game.New(names, *radius, *seed, nil)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	slog.Info("game created", "seed", *seed, "players", len(names), "hexes", len(g.Board.Hexes))

	if _, err := g.AutoInitialSetup(true); err != nil {
		slog.Error("initial setup failed", "error", err)
		os.Exit(1)
	}

	if *boost {
		for _, id := range g.PlayerIDs() {
			for _, r := range board.ProductiveResources {
				g.Players[id].Resources[r] += 2
				g.Bank[r] -= 2
			}
		}
	}

	player := bot.New()
	turns := 0
	for ; turns < *maxTurns && !g.GameOver; turns++ {
		report, err := player.TakeTurn(g, g.CurrentPlayer().ID)
		if err != nil {
			slog.Error("bot turn failed", "error", err)
			os.Exit(1)
		}
		slog.Debug("bot turn",
			"player", g.Players[report.PlayerID].Name,
			"events", strings.Join(report.Events, "; "),
		)
	}

	if g.GameOver {
		slog.Info("game over",
			"winner", g.Winner().Name,
			"points", g.Winner().VictoryPoints,
			"turns", humanize.Comma(int64(turns)),
		)
	} else {
		slog.Info("turn limit reached", "turns", turns)
	}

	ids := g.PlayerIDs()
	sort.SliceStable(ids, func(i, j int) bool {
		return g.Players[ids[i]].VictoryPoints > g.Players[ids[j]].VictoryPoints
	})
	for rank, id := range ids {
		p := g.Players[id]
		fmt.Printf("%s: %s with %d VP, %d settlements, %d cities, %d roads (longest %d), %d knights\n",
			humanize.Ordinal(rank+1), p.Name, p.VictoryPoints,
			len(p.Settlements), len(p.Cities), len(p.Roads),
			g.LongestRoadLengths[id], g.PlayedKnights[id])
	}

	if *dbPath != "" {
		store, err := persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		id, err := store.Save(fmt.Sprintf("autoplay seed %d", *seed), g.Snapshot())
		if err != nil {
			slog.Error("failed to save game", "error", err)
			os.Exit(1)
		}
		slog.Info("final state saved", "id", id)
	}
}
