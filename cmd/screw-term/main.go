package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"screw"
	"screw/deck"
	"screw/protocol"
)

// screw-term is the human-facing player process. It prompts on stdin
// for every move request: a two-character card code plays that card,
// "pickup" picks up the pile.
func main() {
	godotenv.Load()

	var (
		url    = flag.String("url", "ws://localhost:8000/join", "manager join endpoint")
		gameID = flag.String("game", "", "game ID to join")
		name   = flag.String("name", "human", "player name")
	)
	flag.Parse()

	client, err := screw.Dial(fmt.Sprintf("%s?game_id=%s", *url, *gameID), *name)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer client.Close()

	fmt.Printf("You are player %d of %d\n", client.Ordinal(), client.TotalPlayers())

	in := bufio.NewScanner(os.Stdin)
	err = client.Run(
		func(req protocol.RequestMoveMsg) protocol.SubmitMoveMsg {
			return promptForMove(in, req)
		},
		printEvent,
	)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func promptForMove(in *bufio.Scanner, req protocol.RequestMoveMsg) protocol.SubmitMoveMsg {
	fmt.Println("\nIt's your turn!")
	if req.Retries > 0 {
		fmt.Printf("(that wasn't a valid move - attempt %d)\n", req.Retries+1)
	}
	if req.PileTop != nil {
		fmt.Printf("Pile top: %s (%d card(s) in pile)\n", *req.PileTop, req.PileSize)
	} else {
		fmt.Println("The pile is empty")
	}
	fmt.Printf("Your hand:  %s\n", codes(req.Hand))
	fmt.Printf("Legal:      %s\n", codes(req.LegalCards))

	for {
		fmt.Print("Enter a card code (e.g. 'SA') or 'pickup': ")
		if !in.Scan() {
			// stdin gone; let the move time out server-side
			return protocol.SubmitMoveMsg{}
		}

		input := strings.TrimSpace(in.Text())
		if strings.EqualFold(input, "pickup") {
			return protocol.SubmitMoveMsg{Action: protocol.ActionPickUp}
		}

		card, err := deck.ParseCard(strings.ToUpper(input))
		if err != nil {
			fmt.Println(err.Error())
			continue
		}
		return protocol.SubmitMoveMsg{Card: &card, Action: protocol.ActionPlay}
	}
}

func printEvent(msg protocol.NotifyMsg) {
	d := msg.Detail
	switch msg.Event {
	case protocol.EventGameStarted:
		fmt.Printf("Game on! %d players, round %d\n", d.Players, d.Round)
	case protocol.EventRoundStarted:
		fmt.Printf("Round %d begins\n", d.Round)
	case protocol.EventCardPlayed:
		fmt.Printf("Player %d played %s\n", d.Player, *d.Card)
	case protocol.EventCardDrawn:
		fmt.Printf("You drew %s\n", *d.Card)
	case protocol.EventPlayerDrewCard:
		fmt.Printf("Player %d drew a card\n", d.Player)
	case protocol.EventPilePickedUp:
		fmt.Printf("You picked up %d card(s)\n", d.Count)
	case protocol.EventPlayerPickedUpPile:
		fmt.Printf("Player %d picked up the pile (%d card(s))\n", d.Player, d.Count)
	case protocol.EventStockDepleted:
		fmt.Println("The stock is empty")
	case protocol.EventPlayForfeited:
		fmt.Printf("Player %d forfeited their turn\n", d.Player)
	case protocol.EventPlayerLeft:
		fmt.Printf("Player %d left the game\n", d.Player)
	case protocol.EventRoundOver:
		fmt.Printf("Round %d over - player %d wins it\n", d.Round, d.Winner)
	case protocol.EventGameOver:
		fmt.Printf("Game over! Player %d wins\n", d.Winner)
		for _, s := range d.Scores {
			fmt.Printf("  player %d: %d point(s)\n", s.Ordinal, s.Score)
		}
	case protocol.EventGameAborted:
		fmt.Println("The game was aborted")
	default:
		fmt.Printf("%s %+v\n", msg.Event, d)
	}
}

// codes renders a hand as space-separated wire codes, e.g. "SA HT C4"
func codes(cards []deck.Card) string {
	if len(cards) == 0 {
		return "(none)"
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return strings.Join(out, " ")
}
