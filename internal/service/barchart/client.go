package barchart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"AgriPulse/internal/domain/models"
	drepo "AgriPulse/internal/domain/repository"
	xhttp "AgriPulse/pkg/http"
)

// Client implements a MarketStream backed by the Barchart WebSocket feed.
// When a REST URL is configured it also serves one-shot quote snapshots.
type Client struct {
	apiKey         string
	websocketURL   string
	restURL        string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	rest *xhttp.Client

	conn      *websocket.Conn
	connected bool
}

// New creates a new Barchart MarketStream.
func New(apiKey, websocketURL, restURL string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.MarketStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		restURL:        restURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		rest:           xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?apikey=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("barchart connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("barchart: connected")
	return nil
}

// Subscribe subscribes to configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("barchart not connected")
	}
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		log.Printf("barchart: subscribed %s", s)
	}
	return nil
}

type bcQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"lastPrice"`
	Volume float64 `json:"volume"`
	T      int64   `json:"timestamp"` // ms
}

type bcMessage struct {
	Type string    `json:"type"`
	Data []bcQuote `json:"data"`
}

// Read streams MetricTick events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.MetricTick, <-chan error) {
	ticks := make(chan *models.MetricTick, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("barchart conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("barchart read: %w", err)
					return
				}
				var m bcMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-quote frames
					continue
				}
				if m.Type != "quote" {
					continue
				}
				for _, d := range m.Data {
					sec := d.T / 1000
					tick := &models.MetricTick{Symbol: d.Symbol, Timestamp: sec, Price: d.Price, Volume: d.Volume}
					select {
					case ticks <- tick:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
