package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blobarena/config"
	"blobarena/network"
	"blobarena/room"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	rooms := room.NewManager(cfg.Room)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           network.NewServer(rooms, cfg.AllowedOrigins).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[network] listening on %s (ws endpoint: /ws, tick %d Hz, broadcast %d Hz)",
			cfg.Addr, cfg.Room.Game.TickHz, cfg.Room.BroadcastHz)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("[network] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[network] shutdown: %v", err)
	}
	rooms.Close()
}
