// tablectl is a command-line room client: it joins a table over
// WebSocket, streams actions from a JSON-lines file or stdin, and
// prints every broadcast it receives. Useful as a wire-contract smoke
// test and for scripting table setups.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/server"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

var (
	serverURL = flag.String("server", "ws://localhost:8080", "server base URL")
	roomID    = flag.String("room", "", "room to join (required)")
	playerID  = flag.String("player", "", "player id (generated when empty)")
	name      = flag.String("name", "", "display name")
	gm        = flag.Bool("gm", false, "join with GM privileges")
	actions   = flag.String("actions", "", "JSON-lines action file; - or empty reads stdin")
	delay     = flag.Duration("delay", 0, "pause between streamed actions")
	follow    = flag.Bool("follow", false, "keep printing broadcasts after input ends")
	linger    = flag.Duration("linger", 500*time.Millisecond, "how long to collect trailing broadcasts without -follow")
)

func main() {
	flag.Parse()

	room := strings.TrimSpace(*roomID)
	if room == "" {
		log.Fatal("-room is required")
	}
	player := strings.TrimSpace(*playerID)
	if player == "" {
		player = "cli-" + uuid.NewString()[:8]
	}

	target, err := buildURL(*serverURL, room, player, *name, *gm)
	if err != nil {
		log.Fatalf("bad server URL: %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	conn, resp, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", target, err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()
	fmt.Printf("connected to %s as %s\n", room, player)

	done := make(chan struct{})
	go readLoop(conn, done)

	input, closeInput, err := openInput(*actions)
	if err != nil {
		log.Fatalf("open actions: %v", err)
	}
	sent, err := streamActions(conn, room, input, *delay)
	closeInput()
	if err != nil {
		log.Fatalf("stream actions: %v", err)
	}
	if sent > 0 {
		fmt.Printf("streamed %d actions\n", sent)
	}

	if *follow {
		select {
		case <-done:
		case <-interrupt:
		}
	} else {
		select {
		case <-done:
		case <-time.After(*linger):
		case <-interrupt:
		}
	}

	// Clean close so the server announces the departure.
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}

func buildURL(base, room, player, name string, gm bool) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws/" + room

	q := u.Query()
	q.Set("player", player)
	if name != "" {
		q.Set("name", name)
	}
	if gm {
		q.Set("gm", "true")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// streamActions sends each non-empty input line as an ACTION envelope.
// Lines are validated as actions before being forwarded verbatim, so
// unknown extra fields survive untouched.
func streamActions(conn *websocket.Conn, room string, input io.Reader, delay time.Duration) (int, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)

	sent := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var a table.Action
		if err := json.Unmarshal(line, &a); err != nil {
			return sent, fmt.Errorf("line %d: %w", sent+1, err)
		}
		if a.Type == "" {
			return sent, fmt.Errorf("line %d: action without type", sent+1)
		}

		frame, err := json.Marshal(server.Envelope{
			Type:    server.MsgAction,
			RoomID:  room,
			Payload: json.RawMessage(line),
		})
		if err != nil {
			return sent, err
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return sent, err
		}
		sent++
		fmt.Printf("-> %s %s\n", a.Type, a.ID)

		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return sent, scanner.Err()
}

// readLoop prints every broadcast until the connection closes. State
// frames are summarized; everything else is shown compact.
func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env server.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			fmt.Printf("<- unparseable frame: %s\n", raw)
			continue
		}

		switch env.Type {
		case server.MsgState:
			state, err := table.DecodeSnapshot(env.Payload)
			if err != nil {
				fmt.Printf("<- STATE (invalid: %v)\n", err)
				continue
			}
			fmt.Printf("<- STATE objects=%d players=%d checksum=%s\n",
				len(state.Objects), len(state.Players), table.Checksum(state)[:12])
		default:
			fmt.Printf("<- %s %s\n", env.Type, compact(env.Payload))
		}
	}
}

func compact(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
