package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnse-connect/common"
	"dnse-connect/internal/auth"
)

// testBackend is a fake DNSE API: it always serves the auth endpoints and
// delegates everything else to handle.
type testBackend struct {
	logins int32
	handle http.HandlerFunc
}

func (b *testBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth-service/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.logins, 1)
		json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token"})
	})
	mux.HandleFunc("/order-service/trading-token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"tradingToken": "trading-token"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		b.handle(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, b *testBackend) *Client {
	t.Helper()
	srv := b.server(t)
	session := auth.NewSession(auth.Config{
		BaseURL:        srv.URL,
		Username:       "user",
		Password:       "pass",
		OTP:            func() (string, error) { return "123456", nil },
		DisableRefresh: true,
	})
	return NewClient(ClientConfig{
		BaseURL:   srv.URL,
		AccountNo: "0001234567",
		Session:   session,
		RetryBase: time.Millisecond,
	})
}

func TestDoLogsInBeforeFirstRequest(t *testing.T) {
	b := &testBackend{}
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-token", r.Header.Get(common.HeaderAuthorization))
		json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
	}
	c := newTestClient(t, b)

	raw, err := c.Do(context.Background(), http.MethodGet, c.base+"/test", nil, nil, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":"true"}`, string(raw))
	assert.Equal(t, int32(1), atomic.LoadInt32(&b.logins))
}

func TestDoReauthenticatesOn401(t *testing.T) {
	b := &testBackend{}
	var calls int32
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
	}
	c := newTestClient(t, b)

	raw, err := c.Do(context.Background(), http.MethodGet, c.base+"/test", nil, nil, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":"true"}`, string(raw))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	// Initial login plus the forced re-login after the 401.
	assert.Equal(t, int32(2), atomic.LoadInt32(&b.logins))
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	b := &testBackend{}
	var calls int32
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}
	c := newTestClient(t, b)

	_, err := c.Do(context.Background(), http.MethodGet, c.base+"/test", nil, nil, false)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, common.MaxAttempts, reqErr.Attempts)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, int32(common.MaxAttempts), atomic.LoadInt32(&calls))
}

func TestDoPersistent401Stops(t *testing.T) {
	b := &testBackend{}
	var calls int32
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}
	c := newTestClient(t, b)

	_, err := c.Do(context.Background(), http.MethodGet, c.base+"/test", nil, nil, false)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
	assert.Equal(t, int32(common.MaxAttempts), atomic.LoadInt32(&calls))
	// Initial login plus one re-login per retried attempt; the final 401 is
	// not followed by a login whose token would never be used.
	assert.Equal(t, int32(common.MaxAttempts), atomic.LoadInt32(&b.logins))
}

func TestDoEmptyBodyYieldsEmptyObject(t *testing.T) {
	b := &testBackend{}
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	c := newTestClient(t, b)

	raw, err := c.Do(context.Background(), http.MethodGet, c.base+"/test", nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestDoCancelledContext(t *testing.T) {
	b := &testBackend{}
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}
	c := newTestClient(t, b)
	c.retryBase = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, http.MethodGet, c.base+"/test", nil, nil, false)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not abort on cancellation")
	}
}

func TestPlaceOrderSendsIdempotencyKeyAndTradingToken(t *testing.T) {
	b := &testBackend{}
	var gotKey, gotToken string
	var gotPayload map[string]any
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(common.HeaderIdempotencyKey)
		gotToken = r.Header.Get(common.HeaderTradingToken)
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "symbol": "VNM", "orderStatus": "pending"})
	}
	c := newTestClient(t, b)

	o, err := c.PlaceOrder(context.Background(), OrderRequest{
		Symbol:    "VNM",
		Side:      common.SideBuy,
		OrderType: common.OrderTypeLimit,
		Price:     decimal.NewFromInt(75000),
		Quantity:  100,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, o.ID)

	_, err = uuid.Parse(gotKey)
	assert.NoError(t, err, "idempotency key must be a uuid")
	assert.Equal(t, "trading-token", gotToken)
	assert.Equal(t, "VNM", gotPayload["symbol"])
	assert.Equal(t, "NB", gotPayload["side"])
	assert.Equal(t, "0001234567", gotPayload["accountNo"])
	assert.EqualValues(t, 75000, gotPayload["price"])
}

func TestPlaceOrderRejectsInvalidRequest(t *testing.T) {
	b := &testBackend{}
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be reached for an invalid order")
	}
	c := newTestClient(t, b)

	_, err := c.PlaceOrder(context.Background(), OrderRequest{
		Symbol:    "VNM",
		Side:      "BUY", // must be the DNSE code NB
		OrderType: common.OrderTypeLimit,
		Quantity:  100,
	})
	require.Error(t, err)

	_, err = c.PlaceOrder(context.Background(), OrderRequest{
		Symbol:    "VNM",
		Side:      common.SideBuy,
		OrderType: common.OrderTypeLimit,
		Quantity:  0,
	})
	require.Error(t, err)
}

func TestOrdersQuery(t *testing.T) {
	b := &testBackend{}
	var gotQuery map[string][]string
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"orders": []map[string]any{{"id": 1, "symbol": "HPG"}},
		})
	}
	c := newTestClient(t, b)

	orders, err := c.Orders(context.Background(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "HPG", orders[0].Symbol)
	assert.Equal(t, []string{"0001234567"}, gotQuery["accountNo"])
	assert.Equal(t, []string{"2026-08-01"}, gotQuery["fromDate"])
	assert.Equal(t, []string{"2026-08-31"}, gotQuery["toDate"])
}

func TestCancelOrderNeedsTradingToken(t *testing.T) {
	b := &testBackend{}
	var gotMethod, gotToken string
	b.handle = func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotToken = r.Header.Get(common.HeaderTradingToken)
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "orderStatus": "pendingCancel"})
	}
	c := newTestClient(t, b)

	o, err := c.CancelOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 7, o.ID)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "trading-token", gotToken)
}
