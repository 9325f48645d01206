package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// cdpMessage is the wire shape of every DevTools protocol frame, both
// command responses (ID set) and events (Method set).
type cdpMessage struct {
	ID     int64           `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *cdpError       `json:"error,omitempty"`
}

type cdpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *cdpError) Error() string {
	return fmt.Sprintf("cdp: %s (code %d)", e.Message, e.Code)
}

type cdpRequest struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// eventFunc receives protocol events off the reader goroutine. It must not
// block: long work stalls every pending command response.
type eventFunc func(method string, params json.RawMessage)

// conn multiplexes DevTools commands and events over one websocket.
// Responses are correlated to callers by request id; events are handed to
// the onEvent callback.
type conn struct {
	ws      *websocket.Conn
	onEvent eventFunc

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan cdpMessage

	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// dialCDP connects to a DevTools websocket endpoint and starts the reader.
func dialCDP(ctx context.Context, url string, onEvent eventFunc) (*conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing devtools socket: %w", err)
	}
	c := &conn{
		ws:      ws,
		onEvent: onEvent,
		pending: make(map[int64]chan cdpMessage),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// call sends a command and blocks for its response, unmarshalling the
// result into out when out is non-nil.
func (c *conn) call(ctx context.Context, method string, params, out any) error {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	ch := make(chan cdpMessage, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err := c.ws.WriteJSON(cdpRequest{ID: id, Method: method, Params: params})
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("sending %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return fmt.Errorf("%s: connection closed: %w", method, c.closeErr)
	case msg := <-ch:
		if msg.Error != nil {
			return fmt.Errorf("%s: %w", method, msg.Error)
		}
		if out != nil && len(msg.Result) > 0 {
			if err := json.Unmarshal(msg.Result, out); err != nil {
				return fmt.Errorf("decoding %s result: %w", method, err)
			}
		}
		return nil
	}
}

func (c *conn) readLoop() {
	for {
		var msg cdpMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			c.shutdown(err)
			return
		}
		if msg.ID != 0 {
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			c.mu.Unlock()
			if ok {
				ch <- msg
			}
			continue
		}
		if msg.Method != "" && c.onEvent != nil {
			c.onEvent(msg.Method, msg.Params)
		}
	}
}

func (c *conn) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		close(c.closed)
		_ = c.ws.Close()
	})
}

func (c *conn) close() error {
	c.shutdown(fmt.Errorf("closed by client"))
	return nil
}
