package kernel_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shashiranjanraj/shirtshop/app/listeners"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streamEvent struct {
	Event          string `json:"event"`
	OrderID        uint   `json:"order_id"`
	UserID         uint   `json:"user_id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	Total          string `json:"total"`
}

func dialStream(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/orders/stream"
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u, h)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func readEvent(t *testing.T, conn *websocket.Conn) streamEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev streamEvent
	require.NoError(t, json.Unmarshal(raw, &ev), string(raw))
	return ev
}

func TestOrderStream_PushesOwnerAndAdminEvents(t *testing.T) {
	a := newAPI(t)
	listeners.RegisterOrderStream(a.svc.Stream)
	t.Cleanup(a.svc.Stream.Close)
	srv := httptest.NewServer(a.h)
	t.Cleanup(srv.Close)

	admin := a.login("admin", "admin-pass")
	ann := a.register("ann")
	bob := a.register("bob")
	shirt := a.createShirt(admin, map[string]any{"name": "Tee", "sizes": []string{"M"}, "price": 12.5})

	annConn, _, err := dialStream(t, srv, ann)
	require.NoError(t, err)
	bobConn, _, err := dialStream(t, srv, bob)
	require.NoError(t, err)
	adminConn, _, err := dialStream(t, srv, admin)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return a.svc.Stream.Count() == 3 }, 2*time.Second, 10*time.Millisecond)

	rec, _ := a.do(http.MethodPost, "/api/cart/items", ann, map[string]any{"productId": shirt, "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, env := a.do(http.MethodPost, "/api/checkout", ann, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var placed orderBody
	require.NoError(t, json.Unmarshal(env.Data, &placed))

	for _, conn := range []*websocket.Conn{annConn, adminConn} {
		ev := readEvent(t, conn)
		assert.Equal(t, "order.placed", ev.Event)
		assert.Equal(t, placed.ID, ev.OrderID)
		assert.Equal(t, "waiting_shipment", ev.Status)
		assert.Equal(t, "12.50", ev.Total)
	}

	rec, _ = a.do(http.MethodPut, "/api/admin/orders/"+itoa(placed.ID)+"/status", admin,
		map[string]string{"status": "shipped", "trackingNumber": "TH42"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ev := readEvent(t, annConn)
	assert.Equal(t, "order.shipped", ev.Event)
	assert.Equal(t, "TH42", ev.TrackingNumber)

	require.NoError(t, bobConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = bobConn.ReadMessage()
	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout(), "bob must not see ann's orders")
}

func TestOrderStream_RequiresAuthentication(t *testing.T) {
	a := newAPI(t)
	srv := httptest.NewServer(a.h)
	t.Cleanup(srv.Close)

	_, resp, err := dialStream(t, srv, "")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, a.svc.Stream.Count())
}
