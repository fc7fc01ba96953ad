package orders

import (
	"encoding/json"
	"testing"
	"time"

	"solemart/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10)}
	hub.register <- client

	order := &models.Order{
		OrderID:     "o1",
		OrderNumber: "ORD202603140001",
		Status:      models.StatusConfirmed,
		UserID:      "u1",
	}
	hub.BroadcastOrderUpdate(order)

	select {
	case got := <-client.Send:
		var update orderUpdate
		if err := json.Unmarshal(got, &update); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if update.OrderNumber != order.OrderNumber || update.Status != order.Status {
			t.Fatalf("expected %s/%s, got %s/%s", order.OrderNumber, order.Status, update.OrderNumber, update.Status)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for update")
	}

	hub.unregister <- client
}

func TestHubDropsUpdatesWhenStopped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	// must not block or panic after shutdown
	hub.BroadcastOrderUpdate(&models.Order{OrderID: "o1", OrderNumber: "ORD202603140001"})
}
