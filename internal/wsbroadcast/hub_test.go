package wsbroadcast

import "testing"

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, mapID: "m1", send: make(chan []byte, 256)}

	hub.registerClient(client)

	if _, exists := hub.clients["m1"]; !exists {
		t.Fatal("map group was not created")
	}
	if !hub.clients["m1"][client] {
		t.Error("client was not registered under its map")
	}
	if len(hub.clients["m1"]) != 1 {
		t.Errorf("expected 1 client, got %d", len(hub.clients["m1"]))
	}
}

func TestHubUnregisterClientCleansUpEmptyGroup(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, mapID: "m1", send: make(chan []byte, 256)}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.clients["m1"]; exists {
		t.Error("expected map group to be cleaned up after its last client unregistered")
	}
}

func TestHubMultipleClientsSameMap(t *testing.T) {
	hub := NewHub()
	c1 := &Client{hub: hub, mapID: "m1", send: make(chan []byte, 256)}
	c2 := &Client{hub: hub, mapID: "m1", send: make(chan []byte, 256)}

	hub.registerClient(c1)
	hub.registerClient(c2)

	if len(hub.clients["m1"]) != 2 {
		t.Errorf("expected 2 clients in map group, got %d", len(hub.clients["m1"]))
	}

	hub.unregisterClient(c1)
	if len(hub.clients["m1"]) != 1 {
		t.Errorf("expected 1 client remaining, got %d", len(hub.clients["m1"]))
	}
}

func TestBroadcastStateDeliversOnlyToSubscribedMap(t *testing.T) {
	hub := NewHub()
	watched := &Client{hub: hub, mapID: "m1", send: make(chan []byte, 256)}
	other := &Client{hub: hub, mapID: "m2", send: make(chan []byte, 256)}

	hub.registerClient(watched)
	hub.registerClient(other)

	hub.BroadcastState("m1", map[string]int{"score": 7})

	select {
	case msg := <-watched.send:
		if len(msg) == 0 {
			t.Error("expected a non-empty message for the watched map")
		}
	default:
		t.Error("expected watched client to receive a message")
	}

	select {
	case <-other.send:
		t.Error("expected other map's client not to receive a message for m1")
	default:
	}
}
