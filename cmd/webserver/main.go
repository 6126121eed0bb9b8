package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/game"
	"wrapsnake/pkg/grid"
	"wrapsnake/pkg/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// One active connection per client IP.
var activeIPs sync.Map

var store *game.Store

// ServerMessage is the server-to-client frame.
type ServerMessage struct {
	Type        string                  `json:"type"`
	Config      *game.BoardConfig       `json:"config,omitempty"`
	State       *game.Snapshot          `json:"state,omitempty"`
	Leaderboard []game.LeaderboardEntry `json:"leaderboard,omitempty"`
}

// ClientMessage is the client-to-server frame.
type ClientMessage struct {
	Action string `json:"action"`
}

// connSession drives one game per websocket connection. All session
// mutation happens on the run loop goroutine; the reader only forwards
// actions through a channel.
type connSession struct {
	sess      *game.Session
	sessionID string
	actions   chan string
	conn      *websocket.Conn
	writeMu   sync.Mutex
}

func newConnSession(conn *websocket.Conn) (*connSession, error) {
	sess, err := game.NewSession(config.Default(), nil)
	if err != nil {
		return nil, err
	}
	if game.PolicyAvailable() {
		sess.SetPilot(&game.PolicyPilot{})
	}
	return &connSession{
		sess:      sess,
		sessionID: uuid.NewString()[:8],
		actions:   make(chan string, 16),
		conn:      conn,
	}, nil
}

func (cs *connSession) writeJSON(v interface{}) error {
	cs.writeMu.Lock()
	defer cs.writeMu.Unlock()
	return cs.conn.WriteJSON(v)
}

func (cs *connSession) sendState() error {
	snap := cs.sess.Snapshot()
	return cs.writeJSON(ServerMessage{Type: "state", State: &snap})
}

// apply handles one client action on the run loop goroutine.
func (cs *connSession) apply(action string) {
	dirs := map[string]grid.Direction{
		"up": grid.Up, "down": grid.Down, "left": grid.Left, "right": grid.Right,
	}
	switch action {
	case "up", "down", "left", "right":
		cs.sess.RequestDirection(dirs[action])
	case "pause":
		cs.sess.TogglePause()
	case "autopilot":
		cs.sess.ToggleAutopilot()
	case "restart":
		if cs.sess.GameOver() {
			cs.sess.Restart()
		}
	}
}

func (cs *connSession) run() {
	cfg := cs.sess.Config()

	board := cs.sess.Board()
	if err := cs.writeJSON(ServerMessage{Type: "config", Config: &board}); err != nil {
		return
	}
	if err := cs.sendState(); err != nil {
		return
	}

	simTicker := time.NewTicker(cfg.SimInterval)
	defer simTicker.Stop()
	broadcastTicker := time.NewTicker(cfg.RenderInterval)
	defer broadcastTicker.Stop()

	simActive := true
	done := cs.sess.Done()

	for {
		select {
		case action, ok := <-cs.actions:
			if !ok {
				return
			}
			wasOver := cs.sess.GameOver()
			cs.apply(action)
			if wasOver && !cs.sess.GameOver() {
				// Restarted: re-arm the death subscription.
				simActive = true
				done = cs.sess.Done()
			}
			// Immediate echo for UI responsiveness.
			if err := cs.sendState(); err != nil {
				return
			}

		case <-simTicker.C:
			if simActive {
				cs.sess.Tick()
			}

		case <-done:
			done = nil
			simActive = false
			cs.saveResult()
			if err := cs.sendState(); err != nil {
				return
			}

		case <-broadcastTicker.C:
			if err := cs.sendState(); err != nil {
				return
			}
		}
	}
}

func (cs *connSession) saveResult() {
	if store == nil {
		return
	}
	snap := cs.sess.Snapshot()
	err := store.SaveResult(game.Result{
		SessionID: cs.sessionID,
		Name:      "web-" + cs.sessionID,
		Score:     snap.Score,
		FoodEaten: snap.FoodEaten,
		Length:    len(snap.Snake),
		Won:       snap.Won,
		Duration:  cs.sess.Elapsed(),
	})
	if err != nil {
		logging.L().Warnw("failed to save result", "session", cs.sessionID, "error", err)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warnw("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ip := clientIP(r.RemoteAddr)
	if _, loaded := activeIPs.LoadOrStore(ip, true); loaded {
		logging.L().Infow("connection rejected, IP already playing", "ip", ip)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Already connected"))
		return
	}
	defer activeIPs.Delete(ip)

	cs, err := newConnSession(conn)
	if err != nil {
		logging.L().Errorw("session setup failed", "error", err)
		return
	}
	logging.L().Infow("new game", "session", cs.sessionID, "ip", ip)

	// Reader goroutine: forwards actions only, never touches the session.
	go func() {
		defer close(cs.actions)
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case cs.actions <- msg.Action:
			default:
				// Client is spamming faster than the loop drains; drop.
			}
		}
	}()

	cs.run()
}

func clientIP(remoteAddr string) string {
	for i := len(remoteAddr) - 1; i >= 0; i-- {
		if remoteAddr[i] == ':' {
			return remoteAddr[:i]
		}
	}
	return remoteAddr
}

func handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	entries, err := store.TopScores(20)
	if err != nil {
		logging.L().Warnw("leaderboard query failed", "error", err)
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ServerMessage{Type: "leaderboard", Leaderboard: entries})
}

func main() {
	if err := logging.Init(""); err != nil {
		panic(err)
	}
	defer logging.Sync()

	var err error
	store, err = game.OpenStore("data/scores.db")
	if err != nil {
		logging.L().Warnw("score store unavailable", "error", err)
	}

	if err := game.StartPolicyService("ml/checkpoints/wrap_policy.onnx"); err != nil {
		logging.L().Infow("policy service unavailable, autopilot uses heuristic", "error", err)
	}

	http.Handle("/", http.FileServer(http.Dir("web/static")))
	http.HandleFunc("/ws", handleWebSocket)
	http.HandleFunc("/leaderboard", handleLeaderboard)

	addr := ":8080"
	logging.L().Infow("wrap snake web server starting", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logging.L().Fatalw("server exited", "error", err)
	}
}
