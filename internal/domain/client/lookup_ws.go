package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// EmailResolver resolves an email to a client identity.
type EmailResolver interface {
	Resolve(ctx context.Context, email string) (Resolution, error)
}

// lookupMessage is sent by the browser on every keystroke that changes the
// email field. Seq is echoed back untouched.
type lookupMessage struct {
	Seq   int64  `json:"seq"`
	Email string `json:"email"`
}

type lookupError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type lookupResult struct {
	Seq int64 `json:"seq"`
	LookupResponse
	Error *lookupError `json:"error,omitempty"`
}

// LookupSession runs the lookups of one connection. Only the most recently
// submitted lookup may deliver a result: submitting cancels the one in
// flight, and a late result of a superseded lookup is dropped.
type LookupSession struct {
	resolver EmailResolver
	debounce time.Duration
	send     func(lookupResult) error

	mu     sync.Mutex // guards gen, cancel and every call to send
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLookupSession(resolver EmailResolver, debounce time.Duration, send func(lookupResult) error) *LookupSession {
	return &LookupSession{resolver: resolver, debounce: debounce, send: send}
}

// Submit starts a lookup that supersedes every earlier one.
func (s *LookupSession) Submit(parent context.Context, msg lookupMessage) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if s.debounce > 0 {
			timer := time.NewTimer(s.debounce)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}

		res, err := s.resolver.Resolve(ctx, msg.Email)
		s.deliver(gen, msg.Seq, res, err)
	}()
}

func (s *LookupSession) deliver(gen uint64, seq int64, res Resolution, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}

	out := lookupResult{Seq: seq, LookupResponse: toLookupResponse(res)}
	if err != nil {
		out = lookupResult{Seq: seq, Error: &lookupError{Code: "LOOKUP_FAILED", Message: "Client lookup is temporarily unavailable"}}
	}
	_ = s.send(out)
}

// sendError writes a protocol error outside of any lookup.
func (s *LookupSession) sendError(seq int64, code, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(lookupResult{Seq: seq, Error: &lookupError{Code: code, Message: message}})
}

// Close cancels the lookup in flight and waits for it to finish. Nothing is
// sent after Close returns.
func (s *LookupSession) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.mu.Unlock()
	s.wg.Wait()
}

// LookupHandler serves the live lookup websocket.
type LookupHandler struct {
	resolver EmailResolver
	debounce time.Duration
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewLookupHandler accepts connections from allowedOrigins, or from any
// origin when the list is empty. The bearer token is checked by the JWT
// middleware before the upgrade.
func NewLookupHandler(resolver EmailResolver, debounce time.Duration, allowedOrigins []string, log *zap.Logger) *LookupHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &LookupHandler{
		resolver: resolver,
		debounce: debounce,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// Serve godoc
// @Summary Live client lookup
// @Description Send {"seq":n,"email":"..."} messages; only the latest lookup is answered.
// @Tags Clients
// @Security BearerAuth
// @Router /clients/lookup/ws [get]
func (h *LookupHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("lookup websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	session := NewLookupSession(h.resolver, h.debounce, func(r lookupResult) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(r)
	})
	defer session.Close()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("lookup websocket closed", zap.Error(err), zap.String("user_id", c.GetString("user_id")))
			}
			return
		}

		var msg lookupMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if err := session.sendError(0, "INVALID_JSON", "Failed to parse message"); err != nil {
				return
			}
			continue
		}
		session.Submit(ctx, msg)
	}
}

// pingLoop uses WriteControl, which may run concurrently with WriteJSON.
func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
