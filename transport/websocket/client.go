package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrClosed = errors.New("connection closed")

// Handler receives everything the connection delivers. Error and close
// are both reported through OnConnectionLost, exactly once.
type Handler interface {
	OnMessage(data []byte)
	OnConnectionLost(err error)
}

type Options struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	PingPeriod       time.Duration
	Header           http.Header
}

func (that Options) pongWait() time.Duration {
	return that.PingPeriod * 10 / 9
}

type Client struct {
	logger *slog.Logger
	conn   *websocket.Conn
	opts   Options

	writeMu   sync.Mutex
	closed    chan struct{}
	closeOnce sync.Once
}

// Dial opens the game connection.
func Dial(ctx context.Context, logger *slog.Logger, url string, opts Options) (*Client, error) {
	log := logger.With("component", "websocket", "url", url)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	log.Info("WebSocket connection established")

	return &Client{
		logger: log,
		conn:   conn,
		opts:   opts,
		closed: make(chan struct{}),
	}, nil
}

// Listen reads messages in order and hands them to handler until the
// connection fails, the peer closes it or ctx is cancelled.
func (that *Client) Listen(ctx context.Context, handler Handler) {
	log := that.logger.With("method", "Listen")

	stop := context.AfterFunc(ctx, func() {
		_ = that.Close()
	})
	defer stop()

	if that.opts.PingPeriod > 0 {
		_ = that.conn.SetReadDeadline(time.Now().Add(that.opts.pongWait()))
		that.conn.SetPongHandler(func(string) error {
			return that.conn.SetReadDeadline(time.Now().Add(that.opts.pongWait()))
		})

		go that.ping()
	}

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			switch {
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				log.Info("connection closed by server")
			case that.isClosed():
				log.Info("connection closed locally")
			default:
				log.Error("error reading message", "error", err)
			}

			_ = that.Close()
			handler.OnConnectionLost(err)

			return
		}

		log.Debug("message received", "size", len(data))
		handler.OnMessage(data)
	}
}

// Send writes one text message.
func (that *Client) Send(ctx context.Context, payload []byte) error {
	if that.isClosed() {
		return ErrClosed
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.SetWriteDeadline(that.writeDeadline(ctx)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Close says goodbye to the server and releases the connection. It is safe to call more than once.
func (that *Client) Close() error {
	var err error

	that.closeOnce.Do(func() {
		close(that.closed)

		that.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = that.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		that.writeMu.Unlock()

		if closeErr := that.conn.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close connection: %w", closeErr)
		}
	})

	return err
}

func (that *Client) ping() {
	ticker := time.NewTicker(that.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-that.closed:
			return
		case <-ticker.C:
			that.writeMu.Lock()
			err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(that.writeTimeout()))
			that.writeMu.Unlock()

			if err != nil {
				that.logger.Warn("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (that *Client) isClosed() bool {
	select {
	case <-that.closed:
		return true
	default:
		return false
	}
}

func (that *Client) writeTimeout() time.Duration {
	if that.opts.WriteTimeout > 0 {
		return that.opts.WriteTimeout
	}

	return 10 * time.Second
}

func (that *Client) writeDeadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(that.writeTimeout())
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}

	return deadline
}
