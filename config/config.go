package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"blobarena/game"
	"blobarena/protocol"
	"blobarena/room"
)

// Config is everything the server reads from the environment.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Room           room.Config
}

// InitConfig loads a .env file from the working directory if one exists.
// A missing file is not an error; the process environment is used as is.
func InitConfig(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("[config] no .env file, using process environment")
			return nil
		}
		return fmt.Errorf("config: load env: %w", err)
	}
	log.Println("[config] successfully loaded environment variables")
	return nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func envString(key, def string) string {
	v, err := GetEnvVariable(key)
	if err != nil {
		return def
	}
	return strings.TrimSpace(v)
}

func envInt(key string, def int) (int, error) {
	v, err := GetEnvVariable(key)
	if err != nil {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v, err := GetEnvVariable(key)
	if err != nil {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

// Load reads ARENA_* variables over the defaults and validates them.
func Load() (Config, error) {
	def := game.DefaultSettings()
	cfg := Config{
		Addr:           envString("ARENA_ADDR", ":3001"),
		AllowedOrigins: splitList(envString("ARENA_ALLOWED_ORIGINS", "")),
	}

	var errs []error
	intVar := func(key string, def int) int {
		n, err := envInt(key, def)
		errs = append(errs, err)
		return n
	}
	floatVar := func(key string, def float64) float64 {
		f, err := envFloat(key, def)
		errs = append(errs, err)
		return f
	}

	settings := game.Settings{
		TickHz:        intVar("ARENA_TICK_HZ", def.TickHz),
		MatchSeconds:  floatVar("ARENA_MATCH_SECONDS", def.MatchSeconds),
		ShrinkSeconds: floatVar("ARENA_SHRINK_SECONDS", def.ShrinkSeconds),
		FoodCount:     intVar("ARENA_FOOD", def.FoodCount),
		BotCount:      intVar("ARENA_BOTS", def.BotCount),
		VirusCount:    intVar("ARENA_VIRUSES", def.VirusCount),
		Seed:          int64(intVar("ARENA_SEED", 0)),
	}
	broadcastHz := intVar("ARENA_BROADCAST_HZ", protocol.BroadcastHz)
	countdown := floatVar("ARENA_COUNTDOWN_SECONDS", 0)
	idle := floatVar("ARENA_ROOM_IDLE_SECONDS", room.DefaultConfig().IdleTimeout.Seconds())
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	cfg.Room = room.Config{
		Game:        settings,
		BroadcastHz: broadcastHz,
		Countdown:   time.Duration(countdown * float64(time.Second)),
		IdleTimeout: time.Duration(idle * float64(time.Second)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	s := c.Room.Game
	switch {
	case s.TickHz <= 0:
		return fmt.Errorf("config: tick rate must be positive, got %d", s.TickHz)
	case c.Room.BroadcastHz <= 0 || c.Room.BroadcastHz > s.TickHz:
		return fmt.Errorf("config: broadcast rate %d must be in 1..%d", c.Room.BroadcastHz, s.TickHz)
	case s.TickHz%c.Room.BroadcastHz != 0:
		return fmt.Errorf("config: broadcast rate %d does not divide tick rate %d", c.Room.BroadcastHz, s.TickHz)
	case s.MatchSeconds <= 0:
		return fmt.Errorf("config: match length must be positive, got %v", s.MatchSeconds)
	case s.ShrinkSeconds < 0 || s.ShrinkSeconds > s.MatchSeconds:
		return fmt.Errorf("config: shrink start %v must be within the match length %v", s.ShrinkSeconds, s.MatchSeconds)
	case s.FoodCount < 0 || s.BotCount < 0 || s.VirusCount < 0:
		return fmt.Errorf("config: world population must not be negative")
	case s.VirusCount > game.MaxViruses:
		return fmt.Errorf("config: at most %d viruses, got %d", game.MaxViruses, s.VirusCount)
	case c.Room.Countdown < 0:
		return fmt.Errorf("config: countdown must not be negative")
	case c.Room.IdleTimeout <= 0:
		return fmt.Errorf("config: room idle timeout must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
