package debugserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/dynbind/pkg/scenario"
)

// Message types sent on /ws/replay.
const (
	MessageEvent  = "event"
	MessageResult = "result"
	MessageError  = "error"
)

// Message is one frame sent on /ws/replay.
type Message struct {
	Type   string           `json:"type"`
	Event  *scenario.Event  `json:"event,omitempty"`
	Result *scenario.Result `json:"result,omitempty"`
	Error  *errorBody       `json:"error,omitempty"`
}

const writeWait = 5 * time.Second

func (s *Server) handleReplayStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.httpMetrics.StreamOpened()
	defer s.httpMetrics.StreamClosed()
	conn.SetReadLimit(s.config.MaxScenarioBytes)

	_, data, err := conn.ReadMessage()
	if err != nil {
		s.logger.Debug("websocket read failed", "error", err)
		return
	}

	send := func(m Message) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(m)
	}
	fail := func(err error) {
		body := newErrorBody(err)
		_ = send(Message{Type: MessageError, Error: &body})
	}

	sc, err := scenario.Parse(data)
	if err != nil {
		fail(err)
		return
	}

	// The first write error stops streaming; the run itself is finite.
	var writeErr error
	observer := func(e scenario.Event) {
		if writeErr != nil {
			return
		}
		writeErr = send(Message{Type: MessageEvent, Event: &e})
	}

	res, err := s.runner(scenario.WithObserver(observer)).Run(r.Context(), sc)
	if err != nil {
		fail(err)
		return
	}
	if writeErr != nil {
		s.logger.Debug("websocket write failed", "scenario", sc.Name, "error", writeErr)
		return
	}
	if err := send(Message{Type: MessageResult, Result: res}); err != nil {
		return
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
