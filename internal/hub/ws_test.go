package hub

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"kassenboard/internal/common/logger"
	"kassenboard/internal/domain"
	"kassenboard/internal/notify"
	"kassenboard/internal/service"
	"kassenboard/internal/store"
)

// End-to-end over a real websocket: waiter places an order, kitchen flips
// the status, everyone sees both.
func TestWebSocket_OrderFlow(t *testing.T) {
	h := New(logger.NewWriter("hub", io.Discard))
	svc := service.NewOrderService(store.NewMemory(), h, notify.Noop{}, logger.NewWriter("orders", io.Discard))
	h.Bind(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(h, w, r)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	waiter := dial(t, wsURL)
	defer waiter.Close()
	if env := readEnv(t, waiter); env.Event != domain.EventInitialOrders {
		t.Fatalf("expected initialOrders on connect, got %q", env.Event)
	}

	// Place an order from the waiter tablet.
	send(t, waiter, domain.EventPlaceOrder, domain.PlaceOrderRequest{
		Table:  "5",
		Items:  []domain.OrderItem{{Name: "Semmel", Price: 0.50}},
		Total:  0.50,
		Waiter: "Anna",
	})
	env := readEnv(t, waiter)
	if env.Event != domain.EventNewOrder {
		t.Fatalf("expected newOrder, got %q", env.Event)
	}
	var placed domain.Order
	if err := json.Unmarshal(env.Data, &placed); err != nil {
		t.Fatalf("bad order payload: %v", err)
	}
	if placed.ID != 1 || placed.Status != "Neu" || placed.Waiter != "Anna" || placed.Total != 0.50 {
		t.Errorf("unexpected order: %+v", placed)
	}

	// A kitchen display joining now gets the order in its snapshot.
	kitchen := dial(t, wsURL)
	defer kitchen.Close()
	env = readEnv(t, kitchen)
	var snapshot []domain.Order
	if err := json.Unmarshal(env.Data, &snapshot); err != nil {
		t.Fatalf("bad snapshot payload: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0].ID != 1 {
		t.Fatalf("expected snapshot with order 1, got %+v", snapshot)
	}

	// Status change for an unknown id stays silent.
	send(t, kitchen, domain.EventUpdateStatus, domain.StatusChange{OrderID: 99, NewStatus: "Fertig"})
	// Then a real one: both connections receive exactly the change.
	send(t, kitchen, domain.EventUpdateStatus, domain.StatusChange{OrderID: 1, NewStatus: "Fertig"})

	for _, conn := range []*websocket.Conn{waiter, kitchen} {
		env := readEnv(t, conn)
		if env.Event != domain.EventStatusChanged {
			t.Fatalf("expected orderStatusChanged, got %q", env.Event)
		}
		var change domain.StatusChange
		if err := json.Unmarshal(env.Data, &change); err != nil {
			t.Fatalf("bad change payload: %v", err)
		}
		if change.OrderID != 1 || change.NewStatus != "Fertig" {
			t.Errorf("unexpected change: %+v", change)
		}
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func readEnv(t *testing.T, conn *websocket.Conn) domain.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("bad envelope %s: %v", raw, err)
	}
	return env
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	msg, err := json.Marshal(domain.Envelope{Event: event, Data: raw})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}
