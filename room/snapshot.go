package room

import (
	"math"

	"blobarena/game"
	"blobarena/protocol"
)

const leaderboardSize = 10

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (r *Room) buildInit(playerID string) protocol.Init {
	food := make([]protocol.FoodSnapshot, 0, len(r.state.Food))
	for _, f := range r.state.Food {
		food = append(food, foodSnapshot(f))
	}
	return protocol.Init{
		PlayerID:    playerID,
		Room:        r.Code,
		WorldWidth:  game.WorldWidth,
		WorldHeight: game.WorldHeight,
		TickHz:      r.tickHz,
		Food:        food,
	}
}

func (r *Room) buildLobby() protocol.Lobby {
	lobby := protocol.Lobby{
		Room:    r.Code,
		State:   string(r.phase),
		Players: make([]protocol.LobbyPlayer, 0, len(r.clients)),
	}
	for _, p := range r.state.SortedPlayers() {
		c, ok := r.clients[p.ID]
		if !ok {
			continue
		}
		lobby.Players = append(lobby.Players, protocol.LobbyPlayer{ID: p.ID, Name: p.Name, IsReady: c.ready})
	}
	return lobby
}

func (r *Room) buildSnapshot() protocol.State {
	s := r.state
	snapshot := protocol.State{
		Tick:     s.Tick,
		Time:     math.Max(0, s.Timer),
		Players:  make([]protocol.PlayerSnapshot, 0, len(s.Players)),
		Bots:     make([]protocol.BotSnapshot, 0, len(s.Bots)),
		Food:     make([]protocol.FoodSnapshot, 0, len(s.Food)),
		Viruses:  make([]protocol.VirusSnapshot, 0, len(s.Viruses)),
		SafeZone: protocol.SafeZone{X: game.WorldWidth / 2, Y: game.WorldHeight / 2, Radius: s.SafeZoneRadius()},
	}
	for _, p := range s.SortedPlayers() {
		ps := protocol.PlayerSnapshot{
			ID:    p.ID,
			Name:  p.Name,
			Color: p.Color,
			Dead:  p.Dead,
			Score: p.Score,
			Cells: make([]protocol.CellSnapshot, 0, len(p.Cells)),
		}
		for _, c := range p.Cells {
			ps.Cells = append(ps.Cells, protocol.CellSnapshot{
				ID: uint64(c.ID), X: c.X, Y: c.Y, Radius: c.Radius(), Mass: c.Mass(),
			})
		}
		snapshot.Players = append(snapshot.Players, ps)
	}
	for _, b := range s.Bots {
		snapshot.Bots = append(snapshot.Bots, protocol.BotSnapshot{
			ID: uint64(b.ID), X: b.X, Y: b.Y, Radius: b.Radius(), Mass: b.Mass(), Color: b.Color,
		})
	}
	for _, f := range s.Food {
		snapshot.Food = append(snapshot.Food, foodSnapshot(f))
	}
	for _, v := range s.Viruses {
		snapshot.Viruses = append(snapshot.Viruses, protocol.VirusSnapshot{
			ID: uint64(v.ID), X: v.X, Y: v.Y, Radius: v.Radius(), Mass: v.Mass(), Evolution: v.Evolution,
		})
	}
	if s.Jackpot != nil {
		j := foodSnapshot(s.Jackpot)
		snapshot.Jackpot = &j
	}
	snapshot.Leaderboard = r.leaderboard(leaderboardSize)
	return snapshot
}

// leaderboard returns the top n standings; n <= 0 means all of them.
func (r *Room) leaderboard(n int) []protocol.LeaderboardEntry {
	standings := r.state.Standings()
	if n > 0 && len(standings) > n {
		standings = standings[:n]
	}
	out := make([]protocol.LeaderboardEntry, 0, len(standings))
	for _, st := range standings {
		out = append(out, protocol.LeaderboardEntry{ID: st.PlayerID, Name: st.Name, Score: st.Score, Dead: st.Dead})
	}
	return out
}

func (r *Room) buildGameOver() protocol.GameOver {
	over := protocol.GameOver{Leaderboard: r.leaderboard(0)}
	if len(over.Leaderboard) > 0 {
		w := over.Leaderboard[0]
		over.Winner = &w
	}
	return over
}

func foodSnapshot(f *game.Food) protocol.FoodSnapshot {
	kind := "food"
	switch f.Kind {
	case game.FoodJackpot:
		kind = "jackpot"
	case game.FoodEjected:
		kind = "ejected"
	}
	return protocol.FoodSnapshot{
		ID: uint64(f.ID), X: f.X, Y: f.Y, Radius: f.Radius(), Mass: f.Mass, Kind: kind, Color: f.Color,
	}
}
