package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"screw"
	"screw/protocol"
)

func main() {
	godotenv.Load()

	var (
		url    = flag.String("url", "ws://localhost:8000/join", "manager join endpoint")
		gameID = flag.String("game", "", "game ID to join")
		name   = flag.String("name", "bot", "player name")
	)
	flag.Parse()

	client, err := screw.Dial(fmt.Sprintf("%s?game_id=%s", *url, *gameID), *name)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer client.Close()

	log.Printf("joined as player %d of %d", client.Ordinal(), client.TotalPlayers())

	err = client.Run(screw.AutoMove, func(msg protocol.NotifyMsg) {
		log.Printf("%s %+v", msg.Event, msg.Detail)
	})
	if err != nil {
		log.Fatal(err.Error())
	}
}
