package marketdata

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dnse-connect/common"
)

// ConnState is the streaming connection state.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

// TickHandler receives normalized ticks and connection lifecycle events.
// OnTick runs on the stream's dispatcher goroutine, never on the transport's
// receive path.
type TickHandler interface {
	OnTick(tick *Tick)
	OnStreamConnected()
	OnStreamDisconnected(err error)
}

// Transport is the publish/subscribe transport underneath a Stream. Connect
// is expected to run the network loop on its own goroutines and invoke the
// registered handlers from there, including on automatic reconnects.
type Transport interface {
	SetHandlers(h TransportHandlers)
	Connect() error
	Disconnect()
	Subscribe(topic string) error
	Unsubscribe(topic string) error
}

// TransportHandlers are the callbacks a Transport fires. OnConnect fires on
// every successful (re)connect.
type TransportHandlers struct {
	OnConnect        func()
	OnConnectionLost func(err error)
	OnMessage        func(topic string, payload []byte)
}

type subKey struct {
	Symbol string
	Kind   common.FeedKind
}

func (k subKey) topic() string {
	if k.Kind == common.FeedTopPrice {
		return fmt.Sprintf(common.TopicTopPrice, k.Symbol)
	}
	return fmt.Sprintf(common.TopicStockInfo, k.Symbol)
}

// Stream maintains the desired set of (symbol, feed-kind) subscriptions
// across the lifetime of a reconnecting transport and dispatches normalized
// ticks to a handler.
//
// The subscription set is declarative: subscribe-before-connect parks the
// records, and every Connected transition replays the whole set, so both
// early subscription and reconnect-after-drop behave the same. Transport
// callbacks run on the transport's goroutines; tick delivery is handed off
// through a buffered channel drained by a single dispatcher goroutine, so a
// slow consumer can never stall message receipt.
type Stream struct {
	transport Transport
	handler   TickHandler
	log       *zap.Logger

	mu    sync.Mutex
	state ConnState
	subs  map[subKey]struct{}

	dispatch chan *Tick
	done     chan struct{}
}

// NewStream wires a transport to a handler. A nil logger is replaced with a
// no-op one.
func NewStream(transport Transport, handler TickHandler, log *zap.Logger) *Stream {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stream{
		transport: transport,
		handler:   handler,
		log:       log,
		subs:      make(map[subKey]struct{}),
	}
	transport.SetHandlers(TransportHandlers{
		OnConnect:        s.onConnect,
		OnConnectionLost: s.onConnectionLost,
		OnMessage:        s.onMessage,
	})
	return s
}

// State returns the current connection state.
func (s *Stream) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect starts the transport and the dispatcher goroutine. Already-tracked
// subscriptions are sent once the transport acknowledges the connection.
func (s *Stream) Connect() error {
	s.mu.Lock()
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return nil
	}
	s.state = StateConnecting
	s.dispatch = make(chan *Tick, 2048)
	s.done = make(chan struct{})
	dispatch, done := s.dispatch, s.done
	s.mu.Unlock()

	go s.dispatchLoop(dispatch, done)

	if err := s.transport.Connect(); err != nil {
		s.mu.Lock()
		s.state = StateDisconnected
		dispatch := s.dispatch
		done := s.done
		s.dispatch = nil
		s.done = nil
		s.mu.Unlock()
		close(dispatch)
		<-done
		return err
	}
	return nil
}

// Disconnect stops the transport's network loop first, then clears the
// subscription set and stops the dispatcher, so no late message is delivered
// against torn-down state.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	if s.state == StateDisconnected && s.dispatch == nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.transport.Disconnect()

	s.mu.Lock()
	s.state = StateDisconnected
	s.subs = make(map[subKey]struct{})
	dispatch := s.dispatch
	done := s.done
	s.dispatch = nil
	s.done = nil
	s.mu.Unlock()

	if dispatch != nil {
		close(dispatch)
		<-done
	}
	s.log.Info("market data stream disconnected")
}

// Subscribe adds both feed kinds for the symbol to the desired set. When
// connected the subscribe calls go out immediately; otherwise they are sent
// on the next Connected transition. Re-subscribing an already-tracked symbol
// is a no-op at the transport level.
func (s *Stream) Subscribe(symbol string) {
	s.subscribeKind(symbol, common.FeedStockInfo)
	s.subscribeKind(symbol, common.FeedTopPrice)
}

func (s *Stream) subscribeKind(symbol string, kind common.FeedKind) {
	key := subKey{Symbol: symbol, Kind: kind}

	s.mu.Lock()
	if _, exists := s.subs[key]; exists {
		s.mu.Unlock()
		return
	}
	s.subs[key] = struct{}{}
	connected := s.state == StateConnected
	s.mu.Unlock()

	if !connected {
		s.log.Debug("subscription queued until connect",
			zap.String("symbol", symbol), zap.String("kind", string(kind)))
		return
	}
	if err := s.transport.Subscribe(key.topic()); err != nil {
		s.log.Warn("subscribe failed", zap.String("topic", key.topic()), zap.Error(err))
	}
}

// Unsubscribe removes both feed kinds for the symbol from the desired set.
func (s *Stream) Unsubscribe(symbol string) {
	for _, kind := range []common.FeedKind{common.FeedStockInfo, common.FeedTopPrice} {
		key := subKey{Symbol: symbol, Kind: kind}

		s.mu.Lock()
		_, exists := s.subs[key]
		delete(s.subs, key)
		connected := s.state == StateConnected
		s.mu.Unlock()

		if exists && connected {
			if err := s.transport.Unsubscribe(key.topic()); err != nil {
				s.log.Warn("unsubscribe failed", zap.String("topic", key.topic()), zap.Error(err))
			}
		}
	}
}

// SubscribedSymbols returns the symbols currently in the desired set.
func (s *Stream) SubscribedSymbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var symbols []string
	for key := range s.subs {
		if _, dup := seen[key.Symbol]; !dup {
			seen[key.Symbol] = struct{}{}
			symbols = append(symbols, key.Symbol)
		}
	}
	return symbols
}

// onConnect runs on the transport's goroutine for every (re)connect and
// replays the full desired set.
func (s *Stream) onConnect() {
	s.mu.Lock()
	s.state = StateConnected
	keys := make([]subKey, 0, len(s.subs))
	for key := range s.subs {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	s.log.Info("market data stream connected", zap.Int("subscriptions", len(keys)))
	for _, key := range keys {
		if err := s.transport.Subscribe(key.topic()); err != nil {
			s.log.Warn("resubscribe failed", zap.String("topic", key.topic()), zap.Error(err))
		}
	}

	if s.handler != nil {
		s.handler.OnStreamConnected()
	}
}

// onConnectionLost runs on the transport's goroutine. The desired set is kept
// so the next reconnect replays it.
func (s *Stream) onConnectionLost(err error) {
	s.mu.Lock()
	s.state = StateDisconnected
	s.mu.Unlock()

	s.log.Warn("market data connection lost", zap.Error(err))
	if s.handler != nil {
		s.handler.OnStreamDisconnected(err)
	}
}

// onMessage runs on the transport's receive goroutine. It normalizes the
// payload and hands the tick to the dispatcher; a full dispatch buffer drops
// the tick rather than blocking receipt. A malformed message is logged and
// dropped, never fatal.
func (s *Stream) onMessage(topic string, payload []byte) {
	kind, ok := feedKindFromTopic(topic)
	if !ok {
		return
	}

	symbol := symbolFromTopic(topic)
	if symbol == "" {
		symbol = symbolFromPayload(payload)
	}

	tick, err := Normalize(kind, symbol, payload)
	if err != nil {
		s.log.Debug("dropping unparsable message", zap.String("topic", topic), zap.Error(err))
		return
	}

	s.mu.Lock()
	dispatch := s.dispatch
	s.mu.Unlock()
	if dispatch == nil {
		return
	}

	defer func() {
		// The dispatch channel can close during Disconnect while a late
		// message is in flight; dropping it is the correct outcome.
		_ = recover()
	}()
	select {
	case dispatch <- tick:
	default:
		s.log.Warn("dispatch buffer full, dropping tick", zap.String("symbol", tick.Symbol))
	}
}

func (s *Stream) dispatchLoop(dispatch chan *Tick, done chan struct{}) {
	defer close(done)
	for tick := range dispatch {
		if s.handler != nil {
			s.handler.OnTick(tick)
		}
	}
}

func feedKindFromTopic(topic string) (common.FeedKind, bool) {
	switch {
	case strings.Contains(topic, string(common.FeedStockInfo)):
		return common.FeedStockInfo, true
	case strings.Contains(topic, string(common.FeedTopPrice)):
		return common.FeedTopPrice, true
	default:
		return "", false
	}
}

// symbolFromTopic extracts the symbol from the "/symbol/" path segment.
func symbolFromTopic(topic string) string {
	const marker = "/symbol/"
	idx := strings.LastIndex(topic, marker)
	if idx < 0 {
		return ""
	}
	return topic[idx+len(marker):]
}

func symbolFromPayload(payload []byte) string {
	var probe struct {
		Symbol string `json:"symbol"`
	}
	_ = json.Unmarshal(payload, &probe)
	return probe.Symbol
}
