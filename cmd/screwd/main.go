package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"screw"
	"screw/server"
)

func main() {
	godotenv.Load()

	cfg, err := screw.ConfigFromEnv()
	if err != nil {
		log.Fatal(err.Error())
	}

	game, err := screw.NewGame(cfg.GameOpts())
	if err != nil {
		log.Fatal(err.Error())
	}

	router := screw.NewRouter(cfg.Players, cfg.MoveTimeout, cfg.JoinTimeout)

	engine, err := screw.NewGameEngine(screw.GameEngineOpts{
		Game:   game,
		Router: router,
	})
	if err != nil {
		log.Fatal(err.Error())
	}

	srv := server.NewServer(engine.ID(), cfg.Players, router, cfg.Addr)

	go func() {
		log.Printf("game %s listening on %s...", engine.ID(), cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := engine.Run(ctx)
	if err != nil {
		if errors.Is(err, screw.ErrGameAborted) {
			log.Println("game aborted")
		} else {
			log.Println(err.Error())
		}
		srv.Close()
		os.Exit(1)
	}

	log.Printf("player %d wins after %d round(s)", summary.Winner, summary.Rounds)
	for _, s := range summary.Scores {
		log.Printf("player %d: %d point(s)", s.Ordinal, s.Score)
	}

	srv.Close()
}
