package marketdata

import (
	"crypto/tls"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dnse-connect/common"
)

// MQTTConfig configures the MQTT-over-websocket transport used by the DNSE
// market data feed. The broker authenticates with the investor id as
// username and the current JWT as password.
type MQTTConfig struct {
	Host       string
	Port       int
	Path       string
	InvestorID string
	Token      string

	// Credentials, when set, is consulted on every broker (re)connect so a
	// JWT refreshed since Connect replaces the snapshot in Token.
	Credentials func() (username, password string)

	Logger *zap.Logger
}

// mqttTransport adapts the paho client to the Transport interface. Paho runs
// its network loop on its own goroutines and re-fires the OnConnect handler
// after every automatic reconnect, which is exactly what the Stream's replay
// semantics need.
type mqttTransport struct {
	cfg      MQTTConfig
	log      *zap.Logger
	client   mqtt.Client
	handlers TransportHandlers
}

// NewMQTTTransport creates the production transport for a Stream.
func NewMQTTTransport(cfg MQTTConfig) Transport {
	if cfg.Host == "" {
		cfg.Host = common.MarketDataHost
	}
	if cfg.Port == 0 {
		cfg.Port = common.MarketDataPort
	}
	if cfg.Path == "" {
		cfg.Path = common.MarketDataPath
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &mqttTransport{cfg: cfg, log: log}
}

func (t *mqttTransport) SetHandlers(h TransportHandlers) {
	t.handlers = h
}

func (t *mqttTransport) Connect() error {
	broker := fmt.Sprintf("wss://%s:%d%s", t.cfg.Host, t.cfg.Port, t.cfg.Path)
	clientID := fmt.Sprintf("dnse-price-json-mqtt-ws-sub-%s-%s", t.cfg.InvestorID, uuid.NewString()[:8])

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(t.cfg.InvestorID).
		SetPassword(t.cfg.Token).
		SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetKeepAlive(30 * time.Second)

	if t.cfg.Credentials != nil {
		opts.SetCredentialsProvider(mqtt.CredentialsProvider(t.cfg.Credentials))
	}

	opts.SetOnConnectHandler(func(mqtt.Client) {
		if t.handlers.OnConnect != nil {
			t.handlers.OnConnect()
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if t.handlers.OnConnectionLost != nil {
			t.handlers.OnConnectionLost(err)
		}
	})
	opts.SetDefaultPublishHandler(func(_ mqtt.Client, msg mqtt.Message) {
		if t.handlers.OnMessage != nil {
			t.handlers.OnMessage(msg.Topic(), msg.Payload())
		}
	})

	t.log.Info("connecting to market data broker", zap.String("broker", broker))

	t.client = mqtt.NewClient(opts)
	token := t.client.Connect()
	token.Wait()
	return token.Error()
}

func (t *mqttTransport) Disconnect() {
	if t.client == nil {
		return
	}
	t.client.Disconnect(250)
	t.client = nil
}

func (t *mqttTransport) Subscribe(topic string) error {
	if t.client == nil {
		return fmt.Errorf("not connected")
	}
	token := t.client.Subscribe(topic, 0, nil)
	token.Wait()
	return token.Error()
}

func (t *mqttTransport) Unsubscribe(topic string) error {
	if t.client == nil {
		return fmt.Errorf("not connected")
	}
	token := t.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}
