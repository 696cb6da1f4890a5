package stream

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"Folio/internal/core/pagination"
)

const (
	// pongWait is how long a connection may stay silent before reads fail
	pongWait = 60 * time.Second
	// pingInterval must be shorter than pongWait
	pingInterval = 30 * time.Second
	// writeWait bounds every frame write
	writeWait = 10 * time.Second

	maxMessageSize = 64 * 1024
)

// ReasonMalformedMessage is reported when an inbound frame is not valid JSON
// for the call's request type
const ReasonMalformedMessage = "malformed_message"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Streams authenticate by bearer token, not cookies
	CheckOrigin: func(*http.Request) bool { return true },
}

// Conn carries one streaming call over a websocket connection.
// Every text frame holds one JSON message. Recv and Send must be called from
// a single goroutine; the keepalive pinger only writes control frames.
// Close may run concurrently with a blocked Recv and unblocks it.
type Conn[Req, Resp any] struct {
	ws        *websocket.Conn
	logger    *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// Upgrade switches the request to a websocket and starts its keepalive
func Upgrade[Req, Resp any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*Conn[Req, Resp], error) {
	if logger == nil {
		logger = slog.Default()
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	ws.SetReadLimit(maxMessageSize)
	if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Warn("failed to set read deadline", "error", err)
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	c := &Conn[Req, Resp]{
		ws:     ws,
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.keepalive()
	return c, nil
}

// Recv reads the next request. A close frame from the client ends the call
// with io.EOF.
func (c *Conn[Req, Resp]) Recv() (Req, error) {
	var req Req

	msgType, data, err := c.ws.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
			return req, io.EOF
		}
		return req, err
	}
	if msgType != websocket.TextMessage {
		return req, pagination.NewInvalidArgument(ReasonMalformedMessage)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, errors.Join(pagination.NewInvalidArgument(ReasonMalformedMessage), err)
	}

	// Any message proves the client is alive
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Warn("failed to extend read deadline", "error", err)
	}
	return req, nil
}

// Send writes one response frame
func (c *Conn[Req, Resp]) Send(resp Resp) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(resp)
}

// Close ends the call. A nil err closes normally; otherwise the error is
// reported to the client first, unless it is a cancellation.
func (c *Conn[Req, Resp]) Close(err error) {
	c.closeOnce.Do(func() {
		close(c.done)

		code, text := websocket.CloseNormalClosure, ""
		if err != nil {
			status := Classify(err)
			if status.Silent {
				code, text = websocket.CloseGoingAway, ""
			} else {
				c.writeError(status)
				code, text = status.CloseCode, status.Reason
			}
		}

		deadline := time.Now().Add(writeWait)
		if writeErr := c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline); writeErr != nil && !errors.Is(writeErr, websocket.ErrCloseSent) {
			c.logger.Debug("failed to send close frame", "error", writeErr)
		}
		if closeErr := c.ws.Close(); closeErr != nil {
			c.logger.Debug("failed to close websocket", "error", closeErr)
		}
	})
}

func (c *Conn[Req, Resp]) writeError(status Status) {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := c.ws.WriteJSON(ErrorFrame{Error: status.Name, Message: status.Reason}); err != nil {
		c.logger.Debug("failed to send error frame", "error", err)
	}
}

func (c *Conn[Req, Resp]) keepalive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		case <-c.done:
			return
		}
	}
}
