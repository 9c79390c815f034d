package protocol

type Init struct {
	PlayerID    string         `json:"playerId,omitempty"`
	Room        string         `json:"room"`
	WorldWidth  float64        `json:"worldWidth"`
	WorldHeight float64        `json:"worldHeight"`
	TickHz      int            `json:"tickHz"`
	Food        []FoodSnapshot `json:"food"`
}

type LobbyPlayer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

type Lobby struct {
	Room    string        `json:"room"`
	State   string        `json:"state"`
	Players []LobbyPlayer `json:"players"`
}

type Countdown struct {
	Seconds float64 `json:"seconds"`
}

type GameStart struct {
	Time float64 `json:"time"`
}

type State struct {
	Tick        int                `json:"tick"`
	Time        float64            `json:"time"`
	Players     []PlayerSnapshot   `json:"players"`
	Bots        []BotSnapshot      `json:"bots"`
	Food        []FoodSnapshot     `json:"food"`
	Viruses     []VirusSnapshot    `json:"viruses"`
	SafeZone    SafeZone           `json:"safeZone"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Jackpot     *FoodSnapshot      `json:"jackpot"`
}

type PlayerSnapshot struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Color string         `json:"color"`
	Dead  bool           `json:"dead"`
	Score float64        `json:"score"`
	Cells []CellSnapshot `json:"cells"`
}

type CellSnapshot struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
}

type BotSnapshot struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
}

type FoodSnapshot struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Kind   string  `json:"kind"` // "food" | "jackpot" | "ejected"
	Color  string  `json:"color,omitempty"`
}

type VirusSnapshot struct {
	ID        uint64  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Mass      float64 `json:"mass"`
	Evolution int     `json:"evolution"`
}

type SafeZone struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type LeaderboardEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Dead  bool    `json:"dead,omitempty"`
}

type GameOver struct {
	Winner      *LeaderboardEntry  `json:"winner"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type Respawn struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ChatMessage struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type Error struct {
	Message string `json:"message"`
}
