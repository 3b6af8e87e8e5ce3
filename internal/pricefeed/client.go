// Package pricefeed connects the alert engine to the outside world: a
// websocket client consuming live quotes and a hub pushing fired alerts to
// connected frontends.
package pricefeed

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/logging"
)

// Update is one quote message from the stream.
type Update struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// Client keeps a websocket subscription open and coalesces updates into the
// latest known price per ticker. The update cadence is the upstream's; the
// alert engine samples Prices on its own tick.
type Client struct {
	url string

	mu     sync.RWMutex
	prices map[string]float64
}

func NewClient(url string) *Client {
	return &Client{
		url:    url,
		prices: make(map[string]float64),
	}
}

// Run dials the stream and consumes updates until ctx is cancelled,
// reconnecting with capped exponential backoff.
func (c *Client) Run(ctx context.Context) {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			logging.Log.Warn("price stream dial failed",
				zap.String("url", c.url),
				zap.Duration("retry_in", backoff),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}

		backoff = time.Second
		logging.Log.Info("price stream connected", zap.String("url", c.url))
		c.readLoop(ctx, conn)
		conn.Close()
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	// The watcher unblocks ReadJSON on cancellation and exits with the loop,
	// so reconnects do not pile up goroutines.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var u Update
		if err := conn.ReadJSON(&u); err != nil {
			if ctx.Err() == nil {
				logging.Log.Warn("price stream read failed", zap.Error(err))
			}
			return
		}
		if u.Ticker == "" || u.Price <= 0 {
			continue
		}
		c.mu.Lock()
		c.prices[u.Ticker] = u.Price
		c.mu.Unlock()
	}
}

// Prices returns a copy of the latest price map.
func (c *Client) Prices() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.prices))
	for k, v := range c.prices {
		out[k] = v
	}
	return out
}
