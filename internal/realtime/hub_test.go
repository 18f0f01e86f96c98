package realtime

import (
	"testing"
)

func newClient(key string) *Client {
	return &Client{Key: key, Send: make(chan []byte, 8)}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newClient("dr.house@clinic.test")

	hub.Register(c)
	if hub.ClientCount() != 1 || hub.RecipientCount(c.Key) != 1 {
		t.Fatalf("after register: clients=%d recipients=%d", hub.ClientCount(), hub.RecipientCount(c.Key))
	}

	hub.Unregister(c)
	if hub.ClientCount() != 0 || hub.RecipientCount(c.Key) != 0 {
		t.Fatalf("after unregister: clients=%d recipients=%d", hub.ClientCount(), hub.RecipientCount(c.Key))
	}

	if _, open := <-c.Send; open {
		t.Fatal("send channel still open after unregister")
	}

	// A second unregister of the same client must be a no-op.
	hub.Unregister(c)
	if hub.ClientCount() != 0 {
		t.Fatalf("double unregister corrupted count: %d", hub.ClientCount())
	}
}

func TestHubDeliverOnlyToRecipient(t *testing.T) {
	hub := NewHub()
	target := newClient("dr.house@clinic.test")
	other := newClient("dr.wilson@clinic.test")
	hub.Register(target)
	hub.Register(other)

	if n := hub.Deliver(target.Key, []byte(`{"type":"appointment_modified"}`)); n != 1 {
		t.Fatalf("Deliver returned %d, want 1", n)
	}

	select {
	case msg := <-target.Send:
		if string(msg) != `{"type":"appointment_modified"}` {
			t.Fatalf("unexpected payload %q", msg)
		}
	default:
		t.Fatal("target received nothing")
	}

	select {
	case <-other.Send:
		t.Fatal("payload leaked to another recipient")
	default:
	}
}

func TestHubDeliverFanOutPerRecipient(t *testing.T) {
	hub := NewHub()
	tab1 := newClient("dr.house@clinic.test")
	tab2 := newClient("dr.house@clinic.test")
	hub.Register(tab1)
	hub.Register(tab2)

	if n := hub.Deliver("dr.house@clinic.test", []byte("x")); n != 2 {
		t.Fatalf("Deliver returned %d, want 2", n)
	}
}

func TestHubDeliverSkipsFullBuffers(t *testing.T) {
	hub := NewHub()
	c := &Client{Key: "r", Send: make(chan []byte, 1)}
	hub.Register(c)

	if n := hub.Deliver("r", []byte("first")); n != 1 {
		t.Fatalf("first delivery returned %d", n)
	}
	// Buffer now full; delivery must skip, not block.
	if n := hub.Deliver("r", []byte("second")); n != 0 {
		t.Fatalf("second delivery returned %d, want 0", n)
	}
}

func TestHubDeliverToUnknownRecipient(t *testing.T) {
	hub := NewHub()
	if n := hub.Deliver("nobody@clinic.test", []byte("x")); n != 0 {
		t.Fatalf("Deliver to unknown recipient returned %d", n)
	}
}

func TestChannelFor(t *testing.T) {
	if got := ChannelFor("dr.house@clinic.test"); got != "notifications:dr.house@clinic.test" {
		t.Fatalf("ChannelFor = %q", got)
	}
}
