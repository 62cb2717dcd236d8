// Package ws wraps the two WebSocket channels the client consumes: the
// per-user notifications channel and the per-stream livestream channel.
// Payloads are raw JSON events; there is no reconnection or backoff policy
// beyond a caller-driven redial.
package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"waveline/pkg/models"
)

// Conn is a live channel subscription
type Conn struct {
	conn    *websocket.Conn
	channel string
}

// NotificationsURL builds the per-user notifications channel URL
func NotificationsURL(base, userID string) string {
	return strings.TrimRight(base, "/") + "/notifications/" + userID
}

// StreamURL builds the per-stream livestream channel URL
func StreamURL(base, streamID string) string {
	return strings.TrimRight(base, "/") + "/livestreams/" + streamID
}

// Dial opens a channel. The token rides as a query parameter, matching how
// the browser client authenticates its sockets.
func Dial(rawURL, token string) (*Conn, error) {
	if token != "" {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + "token=" + token
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	headers := map[string][]string{
		"User-Agent": {"waveline-tui/1.0"},
	}

	conn, resp, err := dialer.Dial(rawURL, headers)
	if err != nil {
		if resp != nil && resp.Body != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			if len(body) > 0 {
				return nil, fmt.Errorf("connection failed: %w (status=%d body=%s)",
					err, resp.StatusCode, strings.TrimSpace(string(body)))
			}
			return nil, fmt.Errorf("connection failed: %w (status=%d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return &Conn{conn: conn, channel: rawURL}, nil
}

// ReadNotification blocks until the next notifications payload
func (c *Conn) ReadNotification() (*models.Notification, error) {
	var n models.Notification
	if err := c.readJSON(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ReadStreamEvent blocks until the next livestream event
func (c *Conn) ReadStreamEvent() (*models.StreamEvent, error) {
	var ev models.StreamEvent
	if err := c.readJSON(&ev); err != nil {
		return nil, err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return &ev, nil
}

// SendStreamChat sends a chat line on a livestream channel
func (c *Conn) SendStreamChat(content string) error {
	payload, err := json.Marshal(map[string]string{"type": "chat", "content": content})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *Conn) readJSON(target interface{}) error {
	if err := c.conn.ReadJSON(target); err != nil {
		if IsExpectedClose(err) {
			return ErrChannelClosed
		}
		return fmt.Errorf("read failed: %w", err)
	}
	return nil
}

// Close sends a normal close frame and tears the socket down
func (c *Conn) Close() {
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// ErrChannelClosed marks an orderly disconnect
var ErrChannelClosed = errors.New("channel closed")

// IsExpectedClose reports whether err is an orderly shutdown rather than a
// real failure.
func IsExpectedClose(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return true
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
	) {
		return true
	}
	var ce *websocket.CloseError
	return errors.As(err, &ce) || strings.Contains(err.Error(), "use of closed network connection")
}
