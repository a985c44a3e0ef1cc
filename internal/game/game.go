// Package game implements the turn-based rules engine: the player
// ledgers, the ROLL/ROBBER/TRADE/BUILD state machine, the bank economy,
// development cards, and the derived scoring awards. A Game value owns
// all mutable state including its seeded random stream; callers drive
// it one command at a time and every rule violation comes back as a
// wrapped domain error with no side effect.
package game

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/talgya/hex-settlers/internal/board"
)

// Phase is the sub-state of a player's turn gating which commands are
// legal.
type Phase uint8

const (
	PhaseRoll Phase = iota
	PhaseRobber
	PhaseTrade
	PhaseBuild
)

func (p Phase) String() string {
	switch p {
	case PhaseRoll:
		return "ROLL"
	case PhaseRobber:
		return "ROBBER"
	case PhaseTrade:
		return "TRADE"
	case PhaseBuild:
		return "BUILD"
	default:
		return "UNKNOWN"
	}
}

// ParsePhase maps a phase name back to its enum value.
func ParsePhase(name string) (Phase, bool) {
	switch name {
	case "ROLL":
		return PhaseRoll, true
	case "ROBBER":
		return PhaseRobber, true
	case "TRADE":
		return PhaseTrade, true
	case "BUILD":
		return PhaseBuild, true
	default:
		return 0, false
	}
}

const (
	// NoPlayer marks an absent player reference (no award holder, no
	// robber victim).
	NoPlayer = -1

	// VictoryPointsToWin locks the game the moment a player reaches it.
	VictoryPointsToWin = 10

	// bankResourceTotal is the bank's starting stock of each kind.
	bankResourceTotal = 19

	longestRoadMinimum = 5
	largestArmyMinimum = 3
	discardHandLimit   = 7
)

// DiceRoll records one two-die roll.
type DiceRoll struct {
	D1 int `json:"d1"`
	D2 int `json:"d2"`
}

// Total returns the roll sum.
func (d DiceRoll) Total() int { return d.D1 + d.D2 }

// Game is the full engine state. All randomness (dice, shuffles,
// discard sampling, robber selection) flows through the single rng in
// a fixed call order, so one seed and one command sequence reproduce an
// identical trace.
type Game struct {
	Seed  int64
	Board *board.Board

	Players   map[int]*Player
	TurnOrder []int

	CurrentTurnIndex int
	TurnNumber       int
	Phase            Phase
	DiceHistory      []DiceRoll

	DevelopmentDeck       []DevCard
	NewCardsThisTurn      map[int][]DevCard
	DevCardPlayedThisTurn bool
	PlayedKnights         map[int]int

	PendingDiscards    map[int]int
	LongestRoadLengths map[int]int
	LongestRoadHolder  int
	LargestArmyHolder  int
	RobberHex          int

	Bank     ResourceCounts
	GameOver bool
	WinnerID int

	rng *rand.Rand
}

// New creates a game for the named players on a freshly generated board
// of the given radius. The same seed always yields the same board, deck
// order, and subsequent random draws.
func New(playerNames []string, radius int, seed int64, customPorts []board.PortSpec) (*Game, error) {
	if len(playerNames) < 2 {
		return nil, fmt.Errorf("at least 2 players are required, got %d", len(playerNames))
	}

	b, err := board.New(radius, seed, customPorts)
	if err != nil {
		return nil, err
	}

	g := &Game{
		Seed:               seed,
		Board:              b,
		Players:            make(map[int]*Player, len(playerNames)),
		CurrentTurnIndex:   0,
		TurnNumber:         1,
		Phase:              PhaseRoll,
		NewCardsThisTurn:   make(map[int][]DevCard),
		PlayedKnights:      make(map[int]int),
		PendingDiscards:    make(map[int]int),
		LongestRoadLengths: make(map[int]int),
		LongestRoadHolder:  NoPlayer,
		LargestArmyHolder:  NoPlayer,
		WinnerID:           NoPlayer,
		rng:                rand.New(rand.NewSource(seed)),
	}

	for id, name := range playerNames {
		g.Players[id] = NewPlayer(id, name)
		g.TurnOrder = append(g.TurnOrder, id)
		g.LongestRoadLengths[id] = 0
	}

	for _, r := range board.ProductiveResources {
		g.Bank[r] = bankResourceTotal
	}

	g.DevelopmentDeck = g.buildDevelopmentDeck()
	g.RobberHex = g.initialRobberHex()

	return g, nil
}

// buildDevelopmentDeck assembles and shuffles the draw pile. Cards are
// drawn from the end of the slice.
func (g *Game) buildDevelopmentDeck() []DevCard {
	var deck []DevCard
	for _, card := range deckOrder {
		for i := 0; i < devCardCounts[card]; i++ {
			deck = append(deck, card)
		}
	}
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// initialRobberHex starts the robber on the wasteland, falling back to
// the first hex for boards that somehow lack one.
func (g *Game) initialRobberHex() int {
	for _, hexID := range g.Board.SortedHexIDs() {
		if g.Board.Hexes[hexID].Resource == board.Wasteland {
			return hexID
		}
	}
	return g.Board.SortedHexIDs()[0]
}

// PlayerIDs returns all player ids in ascending order.
func (g *Game) PlayerIDs() []int {
	ids := make([]int, 0, len(g.Players))
	for id := range g.Players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.TurnOrder[g.CurrentTurnIndex]]
}

// Winner returns the winning player, or nil while the game is live.
func (g *Game) Winner() *Player {
	if g.WinnerID == NoPlayer {
		return nil
	}
	return g.Players[g.WinnerID]
}

func (g *Game) ensureActive() error {
	if g.GameOver {
		name := "unknown"
		if w := g.Winner(); w != nil {
			name = w.Name
		}
		return fmt.Errorf("%w: winner is %s", ErrGameOver, name)
	}
	return nil
}

func (g *Game) requireCurrentPlayer(playerID int) error {
	if _, ok := g.Players[playerID]; !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownPlayer, playerID)
	}
	if g.CurrentPlayer().ID != playerID {
		return fmt.Errorf("%w: it is %s's turn", ErrWrongPlayer, g.CurrentPlayer().Name)
	}
	return nil
}

func (g *Game) requirePhase(allowed ...Phase) error {
	for _, phase := range allowed {
		if g.Phase == phase {
			return nil
		}
	}
	return fmt.Errorf("%w: in %s", ErrWrongPhase, g.Phase)
}

// payCostToBank moves a build cost from the player to the bank.
func (g *Game) payCostToBank(playerID int, cost ResourceCounts) error {
	player := g.Players[playerID]
	if err := player.SpendResources(cost); err != nil {
		return err
	}
	for i, amount := range cost {
		g.Bank[i] += amount
	}
	return nil
}

// refundCostFromBank reverses payCostToBank after a failed placement.
func (g *Game) refundCostFromBank(playerID int, cost ResourceCounts) {
	player := g.Players[playerID]
	for i, amount := range cost {
		player.Resources[i] += amount
		g.Bank[i] -= amount
	}
}

// addVictoryPoints awards points and fires the victory check. The
// game-over flag is sticky: once a winner is recorded, later point
// movements within the same operation cannot displace them.
func (g *Game) addVictoryPoints(playerID, amount int) {
	g.Players[playerID].VictoryPoints += amount
	if g.Players[playerID].VictoryPoints >= VictoryPointsToWin && !g.GameOver {
		g.GameOver = true
		g.WinnerID = playerID
	}
}

func (g *Game) removeVictoryPoints(playerID, amount int) {
	g.Players[playerID].VictoryPoints -= amount
}

// RollResult reports one roll and the production it paid out.
type RollResult struct {
	Roll    DiceRoll
	Total   int
	Payouts map[int]ResourceCounts
}

// RollForTurn rolls the dice for the current player. A 7 sets discard
// requirements and enters the ROBBER phase; anything else distributes
// production and enters TRADE.
func (g *Game) RollForTurn(playerID int) (*RollResult, error) {
	if err := g.ensureActive(); err != nil {
		return nil, err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return nil, err
	}
	if err := g.requirePhase(PhaseRoll); err != nil {
		return nil, err
	}

	roll := DiceRoll{D1: g.rng.Intn(6) + 1, D2: g.rng.Intn(6) + 1}
	g.DiceHistory = append(g.DiceHistory, roll)
	total := roll.Total()

	result := &RollResult{Roll: roll, Total: total, Payouts: make(map[int]ResourceCounts)}
	for _, id := range g.PlayerIDs() {
		result.Payouts[id] = ResourceCounts{}
	}

	if total == 7 {
		g.PendingDiscards = make(map[int]int)
		for _, id := range g.PlayerIDs() {
			if cards := g.Players[id].TotalResourceCards(); cards > discardHandLimit {
				g.PendingDiscards[id] = cards / 2
			}
		}
		g.Phase = PhaseRobber
		return result, nil
	}

	result.Payouts = g.distributeProduction(total)
	g.Phase = PhaseTrade
	return result, nil
}

// distributeProduction pays every occupied vertex on hexes matching the
// roll, 1 per settlement and 2 per city, capped by remaining bank
// stock. Hexes are visited in id order so partial payments under a
// short bank are deterministic.
func (g *Game) distributeProduction(rollTotal int) map[int]ResourceCounts {
	payouts := make(map[int]ResourceCounts, len(g.Players))
	for _, id := range g.PlayerIDs() {
		payouts[id] = ResourceCounts{}
	}

	for _, hexID := range g.Board.SortedHexIDs() {
		hex := g.Board.Hexes[hexID]
		if hex.Token != rollTotal || hex.Resource == board.Wasteland || hexID == g.RobberHex {
			continue
		}

		for _, vertexID := range hex.Vertices {
			vertex := g.Board.Vertices[vertexID]
			if !vertex.Occupied() {
				continue
			}

			amount := 1
			if vertex.Level == board.LevelCity {
				amount = 2
			}
			if available := g.Bank[hex.Resource]; available < amount {
				amount = available
			}
			if amount <= 0 {
				continue
			}

			g.Players[vertex.Owner].Resources[hex.Resource] += amount
			g.Bank[hex.Resource] -= amount

			counts := payouts[vertex.Owner]
			counts[hex.Resource] += amount
			payouts[vertex.Owner] = counts
		}
	}

	return payouts
}

// FinishTradePhase moves the current player from TRADE to BUILD.
func (g *Game) FinishTradePhase(playerID int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return err
	}
	if err := g.requirePhase(PhaseTrade); err != nil {
		return err
	}
	g.Phase = PhaseBuild
	return nil
}

// EndTurn closes the current player's turn and hands off to the next
// player in order, resetting the phase to ROLL.
func (g *Game) EndTurn(playerID int) (*Player, error) {
	if err := g.ensureActive(); err != nil {
		return nil, err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return nil, err
	}
	if err := g.requirePhase(PhaseTrade, PhaseBuild); err != nil {
		return nil, err
	}

	delete(g.NewCardsThisTurn, playerID)

	g.CurrentTurnIndex = (g.CurrentTurnIndex + 1) % len(g.TurnOrder)
	if g.CurrentTurnIndex == 0 {
		g.TurnNumber++
	}
	g.Phase = PhaseRoll
	g.DevCardPlayedThisTurn = false
	return g.CurrentPlayer(), nil
}

// PortRates holds a player's earned exchange rates: one per productive
// resource plus the generic rate, all defaulting to the 4:1 bank floor.
type PortRates struct {
	Generic  int
	Resource [board.NumProductive]int
}

// PlayerPortRates computes the player's best rates from the ports their
// buildings touch.
func (g *Game) PlayerPortRates(playerID int) PortRates {
	rates := PortRates{Generic: 4}
	for i := range rates.Resource {
		rates.Resource[i] = 4
	}

	player, ok := g.Players[playerID]
	if !ok {
		return rates
	}

	for _, portID := range g.Board.SortedPortIDs() {
		port := g.Board.Ports[portID]
		touches := false
		for _, vertexID := range port.Vertices {
			if player.Settlements[vertexID] || player.Cities[vertexID] {
				touches = true
				break
			}
		}
		if !touches {
			continue
		}

		if port.Resource == nil {
			if port.Rate < rates.Generic {
				rates.Generic = port.Rate
			}
		} else if port.Rate < rates.Resource[*port.Resource] {
			rates.Resource[*port.Resource] = port.Rate
		}
	}

	return rates
}

// BestTradeRate returns the cheapest rate the player has earned for
// giving the resource: the better of their resource-specific port and
// generic port, floored at 4:1.
func (g *Game) BestTradeRate(playerID int, give board.Resource) int {
	rates := g.PlayerPortRates(playerID)
	best := rates.Generic
	if give.Productive() && rates.Resource[give] < best {
		best = rates.Resource[give]
	}
	return best
}

// TradeWithBank exchanges rate units of give for 1 unit of receive.
// A zero rate means "use the player's best rate"; an explicit rate must
// not undercut the best rate the player has actually earned.
func (g *Game) TradeWithBank(playerID int, give, receive board.Resource, rate int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return err
	}
	if err := g.requirePhase(PhaseTrade); err != nil {
		return err
	}

	if !give.Productive() || !receive.Productive() {
		return fmt.Errorf("%w: resources must be productive", ErrInvalidTrade)
	}
	if give == receive {
		return fmt.Errorf("%w: give and receive must differ", ErrInvalidTrade)
	}

	best := g.BestTradeRate(playerID, give)
	resolved := rate
	if resolved == 0 {
		resolved = best
	}
	if resolved < best {
		return fmt.Errorf("%w: rate %d is better than earned rate %d", ErrInvalidTrade, resolved, best)
	}

	player := g.Players[playerID]
	if player.Resources[give] < resolved {
		return fmt.Errorf("%w: need %d %s", ErrInsufficientResources, resolved, give)
	}
	if g.Bank[receive] < 1 {
		return fmt.Errorf("%w: bank has no %s", ErrInvalidTrade, receive)
	}

	player.Resources[give] -= resolved
	g.Bank[give] += resolved
	player.Resources[receive]++
	g.Bank[receive]--
	return nil
}

// PlaceSettlement buys and places a settlement during the BUILD phase.
// The cost is charged first; an illegal placement refunds it in full.
func (g *Game) PlaceSettlement(playerID, vertexID int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return err
	}
	if err := g.requirePhase(PhaseBuild); err != nil {
		return err
	}
	if err := g.payCostToBank(playerID, SettlementCost); err != nil {
		return err
	}

	if !g.Board.CanPlaceSettlement(vertexID, playerID, true) {
		g.refundCostFromBank(playerID, SettlementCost)
		return fmt.Errorf("%w: settlement at vertex %d", ErrIllegalPlacement, vertexID)
	}

	g.placeSettlementUnchecked(playerID, vertexID)
	return nil
}

// PlaceInitialSettlement places a free setup settlement, waiving both
// the cost and the connected-road requirement. The distance rule still
// applies, and setup placements happen outside the turn phases.
func (g *Game) PlaceInitialSettlement(playerID, vertexID int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if _, ok := g.Players[playerID]; !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownPlayer, playerID)
	}
	if !g.Board.CanPlaceSettlement(vertexID, playerID, false) {
		return fmt.Errorf("%w: settlement at vertex %d", ErrIllegalPlacement, vertexID)
	}
	g.placeSettlementUnchecked(playerID, vertexID)
	return nil
}

func (g *Game) placeSettlementUnchecked(playerID, vertexID int) {
	vertex := g.Board.Vertices[vertexID]
	vertex.Owner = playerID
	vertex.Level = board.LevelSettlement
	g.Players[playerID].Settlements[vertexID] = true

	g.addVictoryPoints(playerID, 1)
	// A new settlement can cut an opponent's road path.
	g.recomputeLongestRoad()
}

// UpgradeToCity converts the player's settlement on the vertex into a
// city. The cost is charged first and refunded if the vertex does not
// hold the player's settlement.
func (g *Game) UpgradeToCity(playerID, vertexID int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return err
	}
	if err := g.requirePhase(PhaseBuild); err != nil {
		return err
	}
	if err := g.payCostToBank(playerID, CityCost); err != nil {
		return err
	}

	player := g.Players[playerID]
	vertex, ok := g.Board.Vertices[vertexID]
	if !ok || vertex.Owner != playerID || vertex.Level != board.LevelSettlement {
		g.refundCostFromBank(playerID, CityCost)
		return fmt.Errorf("%w: no settlement of yours at vertex %d", ErrIllegalPlacement, vertexID)
	}

	vertex.Level = board.LevelCity
	delete(player.Settlements, vertexID)
	player.Cities[vertexID] = true
	g.addVictoryPoints(playerID, 1)
	return nil
}

// PlaceRoad buys and places a road during the BUILD phase. The cost is
// charged first; an illegal placement refunds it in full.
func (g *Game) PlaceRoad(playerID, edgeID int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return err
	}
	if err := g.requirePhase(PhaseBuild); err != nil {
		return err
	}
	if err := g.payCostToBank(playerID, RoadCost); err != nil {
		return err
	}

	if !g.Board.CanPlaceRoad(edgeID, playerID) {
		g.refundCostFromBank(playerID, RoadCost)
		return fmt.Errorf("%w: road at edge %d", ErrIllegalPlacement, edgeID)
	}

	g.placeRoadUnchecked(playerID, edgeID)
	return nil
}

// PlaceInitialRoad places a free setup road. It must still connect to
// the player's network.
func (g *Game) PlaceInitialRoad(playerID, edgeID int) error {
	if err := g.ensureActive(); err != nil {
		return err
	}
	if _, ok := g.Players[playerID]; !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownPlayer, playerID)
	}
	if !g.Board.CanPlaceRoad(edgeID, playerID) {
		return fmt.Errorf("%w: road at edge %d", ErrIllegalPlacement, edgeID)
	}
	g.placeRoadUnchecked(playerID, edgeID)
	return nil
}

func (g *Game) placeRoadUnchecked(playerID, edgeID int) {
	g.Board.Edges[edgeID].Owner = playerID
	g.Players[playerID].Roads[edgeID] = true
	g.recomputeLongestRoad()
}

// removeRoad reverses a road placement during a rollback.
func (g *Game) removeRoad(playerID, edgeID int) {
	g.Board.Edges[edgeID].Owner = board.NoOwner
	delete(g.Players[playerID].Roads, edgeID)
}

// BuyDevelopmentCard draws the top card of the deck for the standard
// cost. The card is unplayable until next turn; a Victory Point card
// scores immediately and is never played.
func (g *Game) BuyDevelopmentCard(playerID int) (DevCard, error) {
	if err := g.ensureActive(); err != nil {
		return 0, err
	}
	if err := g.requireCurrentPlayer(playerID); err != nil {
		return 0, err
	}
	if err := g.requirePhase(PhaseBuild); err != nil {
		return 0, err
	}
	if len(g.DevelopmentDeck) == 0 {
		return 0, ErrEmptyDeck
	}
	if err := g.payCostToBank(playerID, DevCardCost); err != nil {
		return 0, err
	}

	card := g.DevelopmentDeck[len(g.DevelopmentDeck)-1]
	g.DevelopmentDeck = g.DevelopmentDeck[:len(g.DevelopmentDeck)-1]

	player := g.Players[playerID]
	player.DevelopmentCards = append(player.DevelopmentCards, card)
	g.NewCardsThisTurn[playerID] = append(g.NewCardsThisTurn[playerID], card)

	if card == VictoryPointCard {
		g.addVictoryPoints(playerID, 1)
	}
	return card, nil
}
