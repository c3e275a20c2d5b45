package events

import "testing"

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster[int](4)
	a, c := b.Subscribe(), b.Subscribe()
	if a.ID == c.ID {
		t.Fatal("subscriptions share an ID")
	}
	b.Publish(7)
	for _, sub := range []Subscription[int]{a, c} {
		if v, ok := Latest(sub); !ok || v != 7 {
			t.Errorf("Latest = %v,%v want 7,true", v, ok)
		}
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	b := NewBroadcaster[int](1)
	sub := b.Subscribe()
	for i := range 10 {
		b.Publish(i)
	}
	if v, ok := Latest(sub); !ok || v != 9 {
		t.Errorf("Latest = %v,%v want 9,true", v, ok)
	}
	if _, ok := Latest(sub); ok {
		t.Error("events delivered twice")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBroadcaster[string](2)
	sub := b.Subscribe()
	b.Unsubscribe(sub.ID)
	b.Unsubscribe(sub.ID)
	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
	b.Publish("ignored")
	if _, open := <-sub.C; open {
		t.Error("channel still open after Unsubscribe")
	}
}

func TestClose(t *testing.T) {
	b := NewBroadcaster[int](1)
	subs := []Subscription[int]{b.Subscribe(), b.Subscribe()}
	b.Close()
	for _, s := range subs {
		if _, open := <-s.C; open {
			t.Error("subscription left open")
		}
	}
}
