// Command settlers runs an interactive table: it creates or restores a
// game, auto-runs the initial placements, and translates line commands
// into rules-engine calls.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hex-settlers/internal/board"
	"github.com/talgya/hex-settlers/internal/config"
	"github.com/talgya/hex-settlers/internal/game"
	"github.com/talgya/hex-settlers/internal/persistence"
)

func main() {
	configPath := flag.String("config", "", "YAML game config (players, seed, radius, ports)")
	dbPath := flag.String("db", "data/settlers.db", "saved-game database path")
	loadID := flag.String("load", "", "saved-game id to resume")
	seed := flag.Int64("seed", 42, "board and dice seed (ignored with -config or -load)")
	players := flag.String("players", "Alice,Bram,Cleo", "comma-separated player names")
	radius := flag.Int("radius", 2, "board radius")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	os.MkdirAll("data", 0755)
	store, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	g, err := setUpGame(store, *configPath, *loadID, *seed, *players, *radius)
	if err != nil {
		slog.Error("failed to set up game", "error", err)
		os.Exit(1)
	}

	fmt.Println(summary(g))
	fmt.Println(`Commands: roll | discard <res...> | autodiscard <player> | robber <hex> [victim] |
  trade <give> <receive> [rate] | done | settlement <v> | city <v> | road <e> | buy |
  play knight <hex> [victim] | play roads <e1> <e2> | play plenty <r1> <r2> | play monopoly <r> |
  end | status | hand | rates | save <name> | saves | deletesave <id> | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s [%s]> ", g.CurrentPlayer().Name, g.Phase)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}

		if err := dispatch(g, store, line); err != nil {
			fmt.Println("error:", err)
		}
		if g.GameOver {
			fmt.Printf("Game over! %s wins with %d points.\n", g.Winner().Name, g.Winner().VictoryPoints)
			printStandings(g)
			return
		}
	}
}

// setUpGame creates a fresh game from flags or config, or restores a
// saved one.
func setUpGame(store *persistence.Store, configPath, loadID string, seed int64, players string, radius int) (*game.Game, error) {
	if loadID != "" {
		snap, err := store.Load(loadID)
		if err != nil {
			return nil, err
		}
		return game.FromSnapshot(snap)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg.Players = strings.Split(players, ",")
		cfg.Seed = seed
		cfg.Radius = radius
	}

	g, err := game.New(cfg.Players, cfg.Radius, cfg.Seed, cfg.PortSpecs())
	if err != nil {
		return nil, err
	}

	slog.Info("board generated",
		"radius", g.Board.Radius,
		"hexes", len(g.Board.Hexes),
		"vertices", len(g.Board.Vertices),
		"edges", len(g.Board.Edges),
		"ports", len(g.Board.Ports),
	)

	events, err := g.AutoInitialSetup(true)
	if err != nil {
		return nil, err
	}
	for i, ev := range events {
		slog.Info("initial placement",
			"round", humanize.Ordinal(i/len(g.Players)+1),
			"player", g.Players[ev.PlayerID].Name,
			"settlement", ev.SettlementVertex,
			"road", ev.RoadEdge,
		)
	}
	return g, nil
}

func dispatch(g *game.Game, store *persistence.Store, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	playerID := g.CurrentPlayer().ID

	switch cmd {
	case "roll":
		result, err := g.RollForTurn(playerID)
		if err != nil {
			return err
		}
		fmt.Printf("rolled %d+%d=%d\n", result.Roll.D1, result.Roll.D2, result.Total)
		for _, id := range g.PlayerIDs() {
			if payout := result.Payouts[id]; payout.Total() > 0 {
				fmt.Printf("  %s receives %s\n", g.Players[id].Name, formatCounts(payout))
			}
		}
		if g.Phase == game.PhaseRobber {
			fmt.Println("a 7! pending discards:", formatDiscards(g))
		}
		return nil

	case "discard":
		resources, err := parseResources(args)
		if err != nil {
			return err
		}
		return g.DiscardForSeven(playerID, resources)

	case "autodiscard":
		if len(args) != 1 {
			return fmt.Errorf("usage: autodiscard <player-id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		discarded, err := g.AutoDiscardForSeven(id)
		if err != nil {
			return err
		}
		fmt.Printf("discarded %d cards\n", len(discarded))
		return nil

	case "robber":
		hexID, victim, err := parseRobberArgs(args)
		if err != nil {
			return err
		}
		result, err := g.ResolveRobberAfterSeven(playerID, hexID, victim)
		if err != nil {
			return err
		}
		printRobberResult(g, result)
		return nil

	case "trade":
		if len(args) < 2 {
			return fmt.Errorf("usage: trade <give> <receive> [rate]")
		}
		give, err := parseResource(args[0])
		if err != nil {
			return err
		}
		receive, err := parseResource(args[1])
		if err != nil {
			return err
		}
		rate := 0
		if len(args) == 3 {
			if rate, err = strconv.Atoi(args[2]); err != nil {
				return err
			}
		}
		return g.TradeWithBank(playerID, give, receive, rate)

	case "done":
		return g.FinishTradePhase(playerID)

	case "settlement":
		vertexID, err := oneInt(args, "settlement <vertex>")
		if err != nil {
			return err
		}
		return g.PlaceSettlement(playerID, vertexID)

	case "city":
		vertexID, err := oneInt(args, "city <vertex>")
		if err != nil {
			return err
		}
		return g.UpgradeToCity(playerID, vertexID)

	case "road":
		edgeID, err := oneInt(args, "road <edge>")
		if err != nil {
			return err
		}
		return g.PlaceRoad(playerID, edgeID)

	case "buy":
		card, err := g.BuyDevelopmentCard(playerID)
		if err != nil {
			return err
		}
		fmt.Println("bought:", card)
		return nil

	case "play":
		return dispatchPlay(g, playerID, args)

	case "end":
		next, err := g.EndTurn(playerID)
		if err != nil {
			return err
		}
		fmt.Printf("turn %d: %s to roll\n", g.TurnNumber, next.Name)
		return nil

	case "status":
		fmt.Println(summary(g))
		return nil

	case "hand":
		player := g.CurrentPlayer()
		fmt.Printf("resources: %s\n", formatCounts(player.Resources))
		for _, card := range player.DevelopmentCards {
			fmt.Println("  card:", card)
		}
		return nil

	case "rates":
		rates := g.PlayerPortRates(playerID)
		fmt.Printf("generic %d:1", rates.Generic)
		for _, r := range board.ProductiveResources {
			fmt.Printf("  %s %d:1", r, rates.Resource[r])
		}
		fmt.Println()
		return nil

	case "save":
		name := "game"
		if len(args) > 0 {
			name = strings.Join(args, " ")
		}
		id, err := store.Save(name, g.Snapshot())
		if err != nil {
			return err
		}
		fmt.Println("saved as", id)
		return nil

	case "saves":
		saves, err := store.List()
		if err != nil {
			return err
		}
		for _, save := range saves {
			fmt.Printf("%s  %q  turn %d  saved %s\n",
				save.ID, save.Name, save.TurnNumber, humanize.Time(save.CreatedAt))
		}
		return nil

	case "deletesave":
		if len(args) != 1 {
			return fmt.Errorf("usage: deletesave <id>")
		}
		return store.Delete(args[0])

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func dispatchPlay(g *game.Game, playerID int, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: play <knight|roads|plenty|monopoly> ...")
	}

	var play game.CardPlay
	switch args[0] {
	case "knight":
		hexID, victim, err := parseRobberArgs(args[1:])
		if err != nil {
			return err
		}
		play = game.KnightPlay{TargetHex: hexID, Victim: victim}

	case "roads":
		if len(args) != 3 {
			return fmt.Errorf("usage: play roads <edge1> <edge2>")
		}
		e1, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		e2, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		play = game.RoadBuildingPlay{Edges: [2]int{e1, e2}}

	case "plenty":
		if len(args) != 3 {
			return fmt.Errorf("usage: play plenty <res1> <res2>")
		}
		r1, err := parseResource(args[1])
		if err != nil {
			return err
		}
		r2, err := parseResource(args[2])
		if err != nil {
			return err
		}
		play = game.YearOfPlentyPlay{Resources: [2]board.Resource{r1, r2}}

	case "monopoly":
		if len(args) != 2 {
			return fmt.Errorf("usage: play monopoly <resource>")
		}
		r, err := parseResource(args[1])
		if err != nil {
			return err
		}
		play = game.MonopolyPlay{Resource: r}

	default:
		return fmt.Errorf("unknown card %q", args[0])
	}

	result, err := g.PlayDevelopmentCard(playerID, play)
	if err != nil {
		return err
	}
	fmt.Println("played:", result.Card)
	if result.Robber != nil {
		printRobberResult(g, result.Robber)
	}
	return nil
}

func parseRobberArgs(args []string) (hexID, victim int, err error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, fmt.Errorf("expected <hex> [victim]")
	}
	hexID, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, err
	}
	victim = game.NoPlayer
	if len(args) == 2 {
		if victim, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, err
		}
	}
	return hexID, victim, nil
}

func parseResource(name string) (board.Resource, error) {
	normalized := strings.ToLower(name)
	if normalized != "" {
		normalized = strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	r, ok := board.ParseResource(normalized)
	if !ok || !r.Productive() {
		return 0, fmt.Errorf("unknown resource %q", name)
	}
	return r, nil
}

func parseResources(names []string) ([]board.Resource, error) {
	resources := make([]board.Resource, 0, len(names))
	for _, name := range names {
		r, err := parseResource(name)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, nil
}

func oneInt(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return strconv.Atoi(args[0])
}

func printRobberResult(g *game.Game, result *game.RobberResult) {
	msg := fmt.Sprintf("robber moved to hex %d", result.TargetHex)
	if result.Victim != game.NoPlayer {
		msg += fmt.Sprintf(", robbed %s", g.Players[result.Victim].Name)
	}
	if result.Stolen != nil {
		msg += fmt.Sprintf(" of 1 %s", *result.Stolen)
	}
	fmt.Println(msg)
}

func formatCounts(counts game.ResourceCounts) string {
	parts := make([]string, 0, board.NumProductive)
	for _, r := range board.ProductiveResources {
		parts = append(parts, fmt.Sprintf("%s:%d", r, counts[r]))
	}
	return strings.Join(parts, " ")
}

func formatDiscards(g *game.Game) string {
	ids := make([]int, 0, len(g.PendingDiscards))
	for id := range g.PendingDiscards {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s owes %d", g.Players[id].Name, g.PendingDiscards[id]))
	}
	return strings.Join(parts, ", ")
}

func summary(g *game.Game) string {
	parts := make([]string, 0, len(g.Players))
	for _, id := range g.PlayerIDs() {
		p := g.Players[id]
		parts = append(parts, fmt.Sprintf("%s(VP=%d S=%d C=%d R=%d)",
			p.Name, p.VictoryPoints, len(p.Settlements), len(p.Cities), len(p.Roads)))
	}
	return fmt.Sprintf("Turn %d | Phase %s | Current %s | Robber hex %d | %s",
		g.TurnNumber, g.Phase, g.CurrentPlayer().Name, g.RobberHex, strings.Join(parts, " | "))
}

func printStandings(g *game.Game) {
	ids := g.PlayerIDs()
	sort.SliceStable(ids, func(i, j int) bool {
		return g.Players[ids[i]].VictoryPoints > g.Players[ids[j]].VictoryPoints
	})
	for rank, id := range ids {
		p := g.Players[id]
		fmt.Printf("%s: %s with %d points\n", humanize.Ordinal(rank+1), p.Name, p.VictoryPoints)
	}
}
