package adapters

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dnse-connect/internal/events"
	"dnse-connect/internal/marketdata"
	"dnse-connect/internal/rest"
	"dnse-connect/providers"
)

// DataClient connects the REST account layer and the streaming layer into
// one market-data client. Connecting authenticates the session, resolves the
// investor id, and opens the stream with the JWT as broker credential.
type DataClient struct {
	rest        *rest.Client
	sink        events.Sink
	instruments *providers.Provider
	log         *zap.Logger

	host string
	port int
	path string

	newTransport func(cfg marketdata.MQTTConfig) marketdata.Transport
	stream       *marketdata.Stream
}

// DataClientConfig configures a DataClient. Host, Port and Path locate the
// market data broker; zero values use the production defaults. NewTransport
// defaults to the production MQTT transport; tests substitute a fake.
type DataClientConfig struct {
	Rest        *rest.Client
	Sink        events.Sink
	Instruments *providers.Provider
	Logger      *zap.Logger

	Host string
	Port int
	Path string

	NewTransport func(cfg marketdata.MQTTConfig) marketdata.Transport
}

// NewDataClient creates a market-data client.
func NewDataClient(cfg DataClientConfig) *DataClient {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sink := cfg.Sink
	if sink == nil {
		sink = events.NopSink{}
	}
	newTransport := cfg.NewTransport
	if newTransport == nil {
		newTransport = marketdata.NewMQTTTransport
	}
	return &DataClient{
		rest:         cfg.Rest,
		sink:         sink,
		instruments:  cfg.Instruments,
		log:          log,
		host:         cfg.Host,
		port:         cfg.Port,
		path:         cfg.Path,
		newTransport: newTransport,
	}
}

// Connect authenticates and opens the market data stream. The broker
// credential reads the session on every (re)connect, so a JWT refreshed in
// the background replaces the one held at first connect.
func (c *DataClient) Connect(ctx context.Context) error {
	session := c.rest.Session()
	if err := session.Start(ctx); err != nil {
		return err
	}

	info, err := c.rest.AccountInfo(ctx)
	if err != nil {
		return err
	}
	if info.InvestorID == "" {
		return fmt.Errorf("account info missing investor id")
	}

	transport := c.newTransport(marketdata.MQTTConfig{
		Host:       c.host,
		Port:       c.port,
		Path:       c.path,
		InvestorID: info.InvestorID,
		Token:      session.Credential().JWT,
		Credentials: func() (string, string) {
			return info.InvestorID, session.Credential().JWT
		},
		Logger: c.log,
	})
	c.stream = marketdata.NewStream(transport, sinkHandler{sink: c.sink}, c.log)

	if err := c.stream.Connect(); err != nil {
		return err
	}
	c.log.Info("data client connected", zap.String("investor_id", info.InvestorID))
	return nil
}

// Disconnect closes the stream, then the auth session.
func (c *DataClient) Disconnect(ctx context.Context) error {
	if c.stream != nil {
		c.stream.Disconnect()
		c.stream = nil
	}
	c.rest.Session().Close()
	c.log.Info("data client disconnected")
	return nil
}

// Subscribe requests both feed kinds for the symbol. Safe before Connect: the
// subscription is parked and flushed once the stream reaches Connected.
func (c *DataClient) Subscribe(symbol string) {
	if c.stream == nil {
		c.log.Warn("subscribe called before connect, dropped", zap.String("symbol", symbol))
		return
	}
	c.stream.Subscribe(symbol)
}

// Unsubscribe removes the symbol from the desired set.
func (c *DataClient) Unsubscribe(symbol string) {
	if c.stream != nil {
		c.stream.Unsubscribe(symbol)
	}
}

// Instruments exposes the static instrument metadata.
func (c *DataClient) Instruments() *providers.Provider { return c.instruments }

// sinkHandler bridges the stream's handler interface onto the sink.
type sinkHandler struct {
	sink events.Sink
}

func (h sinkHandler) OnTick(tick *marketdata.Tick)   { h.sink.OnTick(tick) }
func (h sinkHandler) OnStreamConnected()             { h.sink.OnConnected() }
func (h sinkHandler) OnStreamDisconnected(err error) { h.sink.OnDisconnected(err) }
