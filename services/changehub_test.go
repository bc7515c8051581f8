package services

import (
	"testing"
	"time"
)

func TestChangeHubSequenceIsMonotonic(t *testing.T) {
	hub := NewChangeHub()

	if hub.Seq() != 0 {
		t.Fatalf("expected initial seq 0, got %d", hub.Seq())
	}

	first := hub.Publish("materials", ActionInsert)
	second := hub.Publish("materials", ActionUpdate)
	if first != 1 || second != 2 {
		t.Fatalf("expected seq 1 then 2, got %d then %d", first, second)
	}
	if hub.Seq() != 2 {
		t.Fatalf("expected current seq 2, got %d", hub.Seq())
	}
}

func TestChangeHubDeliversToSubscribers(t *testing.T) {
	hub := NewChangeHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish("materials", ActionDelete)

	select {
	case ev := <-ch:
		if ev.Table != "materials" || ev.Action != ActionDelete || ev.Seq != 1 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
}

func TestChangeHubCancelClosesChannel(t *testing.T) {
	hub := NewChangeHub()

	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // second cancel is a no-op

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}

	// Publishing after cancel must not reach the gone subscriber.
	hub.Publish("clients", ActionInsert)
	if hub.Seq() != 1 {
		t.Fatalf("expected seq 1, got %d", hub.Seq())
	}
}

func TestChangeHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewChangeHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer; Publish must never block on it.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish("movements", ActionInsert)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a slow subscriber")
	}
	if hub.Seq() != 200 {
		t.Fatalf("expected seq 200, got %d", hub.Seq())
	}
}
