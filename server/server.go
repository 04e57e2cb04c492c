package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"

	"screw"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameInfoRes describes the manager's single game
type GameInfoRes struct {
	GameID  string `json:"game_id"`
	Players int    `json:"players"`
	Joined  int    `json:"joined"`
}

// GameServer exposes the join surface for player processes. Exactly one
// game runs per server instance.
type GameServer struct {
	gameID  string
	players int
	router  *screw.Router
	http.Server
}

// NewServer creates a new GameServer for one game
func NewServer(gameID string, players int, router *screw.Router, addr string) *GameServer {
	s := &GameServer{
		gameID:  gameID,
		players: players,
		router:  router,
	}

	mux := http.NewServeMux()
	mux.Handle("/ping", http.HandlerFunc(s.HandlePing))
	mux.Handle("/game", http.HandlerFunc(s.HandleGameInfo))
	mux.Handle("/join", http.HandlerFunc(s.HandleJoin))

	s.Addr = addr
	s.Handler = handlers.CombinedLoggingHandler(os.Stdout,
		handlers.CORS(handlers.AllowedOrigins([]string{"*"}))(mux))

	return s
}

// HandlePing reports liveness
func (g *GameServer) HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// HandleGameInfo reports the game's ID and seat count
func (g *GameServer) HandleGameInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	payload := GameInfoRes{
		GameID:  g.gameID,
		Players: g.players,
		Joined:  g.router.Joined(),
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		log.Println(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.Write(bytes)
}

// HandleJoin upgrades a player process to a websocket and hands the
// connection to the router, which runs the handshake and assigns the
// ordinal.
func (g *GameServer) HandleJoin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	vals, ok := query["game_id"]
	if !ok || len(vals) != 1 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing game ID"))
		return
	}

	if gameID := vals[0]; gameID != g.gameID {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(fmt.Sprintf("unknown game ID '%s'", gameID)))
		return
	}

	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	ordinal, err := g.router.Join(screw.NewWSConn(rawConn))
	if err != nil {
		log.Printf("join failed: %s", err.Error())
		return
	}

	log.Printf("player %d joined game %s", ordinal, g.gameID)
}
