package game

import "github.com/talgya/hex-settlers/internal/board"

// DevCard enumerates the development card kinds.
type DevCard uint8

const (
	Knight DevCard = iota
	VictoryPointCard
	RoadBuilding
	YearOfPlenty
	Monopoly
)

func (c DevCard) String() string {
	switch c {
	case Knight:
		return "Knight"
	case VictoryPointCard:
		return "Victory Point"
	case RoadBuilding:
		return "Road Building"
	case YearOfPlenty:
		return "Year of Plenty"
	case Monopoly:
		return "Monopoly"
	default:
		return "Unknown"
	}
}

// ParseDevCard maps a card name back to its enum value.
func ParseDevCard(name string) (DevCard, bool) {
	switch name {
	case "Knight":
		return Knight, true
	case "Victory Point":
		return VictoryPointCard, true
	case "Road Building":
		return RoadBuilding, true
	case "Year of Plenty":
		return YearOfPlenty, true
	case "Monopoly":
		return Monopoly, true
	default:
		return 0, false
	}
}

// devCardCounts is the draw-pile composition.
var devCardCounts = map[DevCard]int{
	Knight:           14,
	VictoryPointCard: 5,
	RoadBuilding:     2,
	YearOfPlenty:     2,
	Monopoly:         2,
}

// deckOrder keeps deck construction deterministic before the shuffle.
var deckOrder = [5]DevCard{Knight, VictoryPointCard, RoadBuilding, YearOfPlenty, Monopoly}

// CardPlay is the per-kind payload for PlayDevelopmentCard. Each card
// kind carries exactly the fields its effect needs; the engine switches
// over the concrete type exhaustively.
type CardPlay interface {
	Card() DevCard
}

// KnightPlay moves the robber to TargetHex. Victim is a player id, or
// NoPlayer to let the engine pick an eligible victim at random.
type KnightPlay struct {
	TargetHex int
	Victim    int
}

func (KnightPlay) Card() DevCard { return Knight }

// RoadBuildingPlay places two free roads in order. If either placement
// is illegal, both are undone.
type RoadBuildingPlay struct {
	Edges [2]int
}

func (RoadBuildingPlay) Card() DevCard { return RoadBuilding }

// YearOfPlentyPlay grants one of each chosen resource from the bank,
// atomically.
type YearOfPlentyPlay struct {
	Resources [2]board.Resource
}

func (YearOfPlentyPlay) Card() DevCard { return YearOfPlenty }

// MonopolyPlay transfers every other player's holding of the resource
// to the active player.
type MonopolyPlay struct {
	Resource board.Resource
}

func (MonopolyPlay) Card() DevCard { return Monopoly }

// CardPlayResult reports what a successful card play did.
type CardPlayResult struct {
	Card          DevCard
	Robber        *RobberResult   // Knight
	PlayedKnights int             // Knight: total knights the player has played
	PlacedEdges   []int           // Road Building
	Granted       []board.Resource // Year of Plenty
	Resource      board.Resource  // Monopoly
	StolenTotal   int             // Monopoly
}
