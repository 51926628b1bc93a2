package host

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OriD-19/fpsmeter/internal/logging"
)

// ErrNotConnected is returned when an operation needs a live connection.
var ErrNotConnected = errors.New("websocket source not connected")

// WebsocketSource turns messages from a remote render loop into frame signals:
// every inbound message is one frame. The payload is ignored.
type WebsocketSource struct {
	conn           *websocket.Conn
	serverURL      string
	connected      bool
	stopped        bool
	mutex          sync.RWMutex
	frames         chan struct{}
	errCh          chan error
	done           chan struct{} // closed when the current connection is torn down
	reconnectDelay time.Duration
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	sourceID       string
}

// NewWebsocketSource creates a source for serverURL. Nothing is dialed until
// Connect or Start.
func NewWebsocketSource(serverURL, sourceID string) *WebsocketSource {
	return &WebsocketSource{
		serverURL:      serverURL,
		frames:         make(chan struct{}),
		errCh:          make(chan error, 10),
		reconnectDelay: 5 * time.Second,
		maxMessageSize: 512,
		writeWait:      10 * time.Second,
		pongWait:       60 * time.Second,
		pingPeriod:     54 * time.Second, // less than pongWait
		sourceID:       sourceID,
	}
}

// Frames delivers one signal per inbound message. It is never closed; consumers
// stop on their own context.
func (ws *WebsocketSource) Frames() <-chan struct{} { return ws.frames }

// Err reports read and write failures. Errors are dropped when nobody drains it.
func (ws *WebsocketSource) Err() <-chan error { return ws.errCh }

// Start connects, keeps reconnecting while ctx is live, and disconnects when
// ctx is done.
func (ws *WebsocketSource) Start(ctx context.Context) error {
	if err := ws.Connect(ctx); err != nil {
		return err
	}
	ws.StartReconnectLoop(ctx)
	go func() {
		<-ctx.Done()
		ws.mutex.Lock()
		ws.stopped = true
		ws.mutex.Unlock()
		ws.Disconnect()
	}()
	return nil
}

// Connect dials the server and starts the read and write pumps.
func (ws *WebsocketSource) Connect(ctx context.Context) error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if ws.connected {
		return nil
	}

	u, err := url.Parse(ws.serverURL)
	if err != nil {
		return fmt.Errorf("parse websocket url: %w", err)
	}

	logging.Infof("[%s] connecting to frame source %s", ws.sourceID, ws.serverURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	ws.conn = conn
	ws.connected = true
	ws.done = make(chan struct{})

	conn.SetReadLimit(ws.maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(ws.pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(ws.pongWait))
		return nil
	})

	go ws.readPump(conn, ws.done)
	go ws.writePump(conn, ws.done)

	logging.Infof("[%s] connected", ws.sourceID)
	return nil
}

// Disconnect closes the current connection, if any.
func (ws *WebsocketSource) Disconnect() {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	ws.teardown()
	logging.Debugf("[%s] disconnected", ws.sourceID)
}

// teardown must be called with the mutex held.
func (ws *WebsocketSource) teardown() {
	if !ws.connected {
		return
	}
	close(ws.done)
	if ws.conn != nil {
		ws.conn.Close()
	}
	ws.conn = nil
	ws.connected = false
}

// dropConn tears down conn unless a newer connection already replaced it.
func (ws *WebsocketSource) dropConn(conn *websocket.Conn) {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	if ws.conn == conn {
		ws.teardown()
	}
}

func (ws *WebsocketSource) IsConnected() bool {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	return ws.connected
}

func (ws *WebsocketSource) report(err error) {
	select {
	case ws.errCh <- err:
	default:
	}
}

// readPump turns each message into a frame signal.
func (ws *WebsocketSource) readPump(conn *websocket.Conn, done chan struct{}) {
	defer ws.dropConn(conn)

	for {
		conn.SetReadDeadline(time.Now().Add(ws.pongWait))
		if _, _, err := conn.ReadMessage(); err != nil {
			select {
			case <-done:
				// closed locally
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logging.Warnf("[%s] read error: %v", ws.sourceID, err)
				}
				ws.report(fmt.Errorf("read frame: %w", err))
			}
			return
		}

		select {
		case ws.frames <- struct{}{}:
		case <-done:
			return
		}
	}
}

// writePump keeps the connection alive with pings.
func (ws *WebsocketSource) writePump(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(ws.pingPeriod)
	defer func() {
		ticker.Stop()
		ws.dropConn(conn)
	}()

	for {
		select {
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(ws.writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			if err := ws.sendPing(); err != nil {
				if !errors.Is(err, ErrNotConnected) {
					ws.report(fmt.Errorf("ping: %w", err))
				}
				return
			}
		}
	}
}

func (ws *WebsocketSource) sendPing() error {
	ws.mutex.RLock()
	if !ws.connected || ws.conn == nil {
		ws.mutex.RUnlock()
		return ErrNotConnected
	}
	conn := ws.conn
	ws.mutex.RUnlock()

	conn.SetWriteDeadline(time.Now().Add(ws.writeWait))
	return conn.WriteMessage(websocket.PingMessage, nil)
}

// StartReconnectLoop redials every reconnectDelay while disconnected, until ctx
// is done.
func (ws *WebsocketSource) StartReconnectLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(ws.reconnectDelay)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			ws.mutex.RLock()
			idle := !ws.connected && !ws.stopped
			ws.mutex.RUnlock()
			if !idle {
				continue
			}

			logging.Infof("[%s] attempting to reconnect...", ws.sourceID)
			if err := ws.Connect(ctx); err != nil {
				logging.Warnf("[%s] reconnection failed: %v", ws.sourceID, err)
			} else {
				logging.Infof("[%s] reconnection successful", ws.sourceID)
			}
		}
	}()
}
