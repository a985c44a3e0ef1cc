package game

import (
	"fmt"
	"sort"

	"github.com/talgya/hex-settlers/internal/board"
)

// Snapshot is the lossless persisted form of a Game. Board topology is
// not stored: it regenerates deterministically from seed and radius,
// and the saved port list pins the port layout. Everything mutable is
// overlaid on top.
type Snapshot struct {
	Seed        int64 `json:"seed"`
	BoardRadius int   `json:"board_radius"`

	TurnOrder        []int      `json:"turn_order"`
	CurrentTurnIndex int        `json:"current_turn_index"`
	TurnNumber       int        `json:"turn_number"`
	Phase            string     `json:"phase"`
	DiceHistory      []DiceRoll `json:"dice_history"`

	RobberHex          int         `json:"robber_hex"`
	PendingDiscards    map[int]int `json:"pending_discards"`
	LongestRoadLengths map[int]int `json:"longest_road_lengths"`
	LongestRoadHolder  int         `json:"longest_road_holder"`
	LargestArmyHolder  int         `json:"largest_army_holder"`
	PlayedKnights      map[int]int `json:"played_knights"`

	GameOver bool `json:"game_over"`
	Winner   int  `json:"winner"`

	Bank                  map[string]int      `json:"bank_resources"`
	DevelopmentDeck       []string            `json:"development_deck"`
	DevCardPlayedThisTurn bool                `json:"dev_card_played_this_turn"`
	NewCardsThisTurn      map[int][]string    `json:"new_cards_this_turn"`
	Players               map[int]*PlayerSnap `json:"players"`
	Board                 BoardSnap           `json:"board"`
}

// PlayerSnap is one player's persisted ledger.
type PlayerSnap struct {
	Name             string         `json:"name"`
	Resources        map[string]int `json:"resources"`
	DevelopmentCards []string       `json:"development_cards"`
	VictoryPoints    int            `json:"victory_points"`
	Settlements      []int          `json:"settlements"`
	Cities           []int          `json:"cities"`
	Roads            []int          `json:"roads"`
}

// BoardSnap carries the mutable board overlay plus the port layout.
type BoardSnap struct {
	Hexes    map[int]HexSnap    `json:"hexes"`
	Vertices map[int]VertexSnap `json:"vertices"`
	Edges    map[int]EdgeSnap   `json:"edges"`
	Ports    []PortSnap         `json:"ports"`
}

type HexSnap struct {
	Resource string `json:"resource"`
	Token    int    `json:"token"`
}

type VertexSnap struct {
	Owner int `json:"owner"`
	Level int `json:"level"`
}

type EdgeSnap struct {
	Owner int `json:"owner"`
}

type PortSnap struct {
	EdgeID   int     `json:"edge_id"`
	Rate     int     `json:"rate"`
	Resource *string `json:"resource"`
}

// Snapshot captures the complete game state.
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		Seed:                  g.Seed,
		BoardRadius:           g.Board.Radius,
		TurnOrder:             append([]int(nil), g.TurnOrder...),
		CurrentTurnIndex:      g.CurrentTurnIndex,
		TurnNumber:            g.TurnNumber,
		Phase:                 g.Phase.String(),
		DiceHistory:           append([]DiceRoll(nil), g.DiceHistory...),
		RobberHex:             g.RobberHex,
		PendingDiscards:       make(map[int]int),
		LongestRoadLengths:    make(map[int]int),
		LongestRoadHolder:     g.LongestRoadHolder,
		LargestArmyHolder:     g.LargestArmyHolder,
		PlayedKnights:         make(map[int]int),
		GameOver:              g.GameOver,
		Winner:                g.WinnerID,
		Bank:                  make(map[string]int),
		DevelopmentDeck:       make([]string, 0, len(g.DevelopmentDeck)),
		DevCardPlayedThisTurn: g.DevCardPlayedThisTurn,
		NewCardsThisTurn:      make(map[int][]string),
		Players:               make(map[int]*PlayerSnap),
		Board: BoardSnap{
			Hexes:    make(map[int]HexSnap),
			Vertices: make(map[int]VertexSnap),
			Edges:    make(map[int]EdgeSnap),
			Ports:    make([]PortSnap, 0, len(g.Board.Ports)),
		},
	}

	for id, count := range g.PendingDiscards {
		snap.PendingDiscards[id] = count
	}
	for id, length := range g.LongestRoadLengths {
		snap.LongestRoadLengths[id] = length
	}
	for id, count := range g.PlayedKnights {
		snap.PlayedKnights[id] = count
	}
	for _, r := range board.ProductiveResources {
		snap.Bank[r.String()] = g.Bank[r]
	}
	for _, card := range g.DevelopmentDeck {
		snap.DevelopmentDeck = append(snap.DevelopmentDeck, card.String())
	}
	for id, cards := range g.NewCardsThisTurn {
		names := make([]string, 0, len(cards))
		for _, card := range cards {
			names = append(names, card.String())
		}
		snap.NewCardsThisTurn[id] = names
	}

	for _, id := range g.PlayerIDs() {
		player := g.Players[id]
		ps := &PlayerSnap{
			Name:             player.Name,
			Resources:        make(map[string]int),
			DevelopmentCards: make([]string, 0, len(player.DevelopmentCards)),
			VictoryPoints:    player.VictoryPoints,
			Settlements:      sortedKeys(player.Settlements),
			Cities:           sortedKeys(player.Cities),
			Roads:            sortedKeys(player.Roads),
		}
		for _, r := range board.ProductiveResources {
			ps.Resources[r.String()] = player.Resources[r]
		}
		for _, card := range player.DevelopmentCards {
			ps.DevelopmentCards = append(ps.DevelopmentCards, card.String())
		}
		snap.Players[id] = ps
	}

	for id, hex := range g.Board.Hexes {
		snap.Board.Hexes[id] = HexSnap{Resource: hex.Resource.String(), Token: hex.Token}
	}
	for id, vertex := range g.Board.Vertices {
		snap.Board.Vertices[id] = VertexSnap{Owner: vertex.Owner, Level: vertex.Level}
	}
	for id, edge := range g.Board.Edges {
		snap.Board.Edges[id] = EdgeSnap{Owner: edge.Owner}
	}
	for _, portID := range g.Board.SortedPortIDs() {
		port := g.Board.Ports[portID]
		ps := PortSnap{EdgeID: port.EdgeID, Rate: port.Rate}
		if port.Resource != nil {
			name := port.Resource.String()
			ps.Resource = &name
		}
		snap.Board.Ports = append(snap.Board.Ports, ps)
	}

	return snap
}

// FromSnapshot rebuilds a game from a snapshot: topology from seed,
// radius, and the saved port list, then the full mutable overlay.
func FromSnapshot(snap *Snapshot) (*Game, error) {
	playerIDs := make([]int, 0, len(snap.Players))
	for id := range snap.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Ints(playerIDs)

	names := make([]string, 0, len(playerIDs))
	for i, id := range playerIDs {
		if id != i {
			return nil, fmt.Errorf("snapshot player ids must be dense from 0, got %v", playerIDs)
		}
		names = append(names, snap.Players[id].Name)
	}

	ports, err := portSpecsFromSnap(snap.Board.Ports)
	if err != nil {
		return nil, err
	}

	g, err := New(names, snap.BoardRadius, snap.Seed, ports)
	if err != nil {
		return nil, err
	}

	phase, ok := ParsePhase(snap.Phase)
	if !ok {
		return nil, fmt.Errorf("snapshot has unknown phase %q", snap.Phase)
	}

	g.TurnOrder = append([]int(nil), snap.TurnOrder...)
	g.CurrentTurnIndex = snap.CurrentTurnIndex
	g.TurnNumber = snap.TurnNumber
	g.Phase = phase
	g.DiceHistory = append([]DiceRoll(nil), snap.DiceHistory...)
	g.RobberHex = snap.RobberHex
	g.LongestRoadHolder = snap.LongestRoadHolder
	g.LargestArmyHolder = snap.LargestArmyHolder
	g.GameOver = snap.GameOver
	g.WinnerID = snap.Winner
	g.DevCardPlayedThisTurn = snap.DevCardPlayedThisTurn

	g.PendingDiscards = make(map[int]int)
	for id, count := range snap.PendingDiscards {
		g.PendingDiscards[id] = count
	}
	g.PlayedKnights = make(map[int]int)
	for id, count := range snap.PlayedKnights {
		g.PlayedKnights[id] = count
	}
	g.LongestRoadLengths = make(map[int]int)
	for id, length := range snap.LongestRoadLengths {
		g.LongestRoadLengths[id] = length
	}

	for name, amount := range snap.Bank {
		r, ok := board.ParseResource(name)
		if !ok || !r.Productive() {
			return nil, fmt.Errorf("snapshot has unknown bank resource %q", name)
		}
		g.Bank[r] = amount
	}

	g.DevelopmentDeck = nil
	for _, name := range snap.DevelopmentDeck {
		card, ok := ParseDevCard(name)
		if !ok {
			return nil, fmt.Errorf("snapshot has unknown development card %q", name)
		}
		g.DevelopmentDeck = append(g.DevelopmentDeck, card)
	}

	g.NewCardsThisTurn = make(map[int][]DevCard)
	for id, cardNames := range snap.NewCardsThisTurn {
		for _, name := range cardNames {
			card, ok := ParseDevCard(name)
			if !ok {
				return nil, fmt.Errorf("snapshot has unknown development card %q", name)
			}
			g.NewCardsThisTurn[id] = append(g.NewCardsThisTurn[id], card)
		}
	}

	for _, id := range playerIDs {
		ps := snap.Players[id]
		player := g.Players[id]
		for name, amount := range ps.Resources {
			r, ok := board.ParseResource(name)
			if !ok || !r.Productive() {
				return nil, fmt.Errorf("snapshot has unknown player resource %q", name)
			}
			player.Resources[r] = amount
		}
		player.DevelopmentCards = nil
		for _, name := range ps.DevelopmentCards {
			card, ok := ParseDevCard(name)
			if !ok {
				return nil, fmt.Errorf("snapshot has unknown development card %q", name)
			}
			player.DevelopmentCards = append(player.DevelopmentCards, card)
		}
		player.VictoryPoints = ps.VictoryPoints
		player.Settlements = setFromSlice(ps.Settlements)
		player.Cities = setFromSlice(ps.Cities)
		player.Roads = setFromSlice(ps.Roads)
	}

	for id, hs := range snap.Board.Hexes {
		hex, ok := g.Board.Hexes[id]
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown hex %d", id)
		}
		r, valid := board.ParseResource(hs.Resource)
		if !valid {
			return nil, fmt.Errorf("snapshot has unknown hex resource %q", hs.Resource)
		}
		hex.Resource = r
		hex.Token = hs.Token
	}
	for id, vs := range snap.Board.Vertices {
		vertex, ok := g.Board.Vertices[id]
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown vertex %d", id)
		}
		vertex.Owner = vs.Owner
		vertex.Level = vs.Level
	}
	for id, es := range snap.Board.Edges {
		edge, ok := g.Board.Edges[id]
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown edge %d", id)
		}
		edge.Owner = es.Owner
	}

	return g, nil
}

func portSpecsFromSnap(ports []PortSnap) ([]board.PortSpec, error) {
	if ports == nil {
		return nil, nil
	}
	specs := make([]board.PortSpec, 0, len(ports))
	for _, ps := range ports {
		spec := board.PortSpec{EdgeID: ps.EdgeID, Rate: ps.Rate}
		if ps.Resource != nil {
			r, ok := board.ParseResource(*ps.Resource)
			if !ok {
				return nil, fmt.Errorf("snapshot has unknown port resource %q", *ps.Resource)
			}
			spec.Resource = &r
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func setFromSlice(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
