package host

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OriD-19/fpsmeter/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // frame events carry no data worth protecting
	},
}

// FrameServer serves a stream of frame events over websocket: one message per
// frame of its ticker. It is the remote end a WebsocketSource connects to.
type FrameServer struct {
	Ticker    TickerHost
	WriteWait time.Duration
}

func (fs *FrameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warnf("[frame server] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	logging.Infof("[frame server] streaming frames to %s", conn.RemoteAddr())

	writeWait := fs.WriteWait
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	ctx := r.Context()
	// Drain client messages so control frames (ping, close) are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var n uint64
	frames := fs.Ticker.Frames(ctx)
	for {
		select {
		case <-closed:
			logging.Infof("[frame server] %s went away after %d frames", conn.RemoteAddr(), n)
			return
		case _, ok := <-frames:
			if !ok {
				return
			}
			n++
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, strconv.AppendUint(nil, n, 10)); err != nil {
				logging.Warnf("[frame server] write error: %v", err)
				return
			}
		}
	}
}
