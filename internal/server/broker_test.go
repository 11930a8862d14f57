package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerPublish(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(tournamentTopic)
	other := b.Subscribe("elsewhere")

	b.Publish(tournamentTopic, Event{Type: eventResultRecorded, TournamentID: "t1", Score: "2-0"})

	select {
	case data := <-ch:
		var e Event
		if err := json.Unmarshal(data, &e); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if e.Type != eventResultRecorded || e.TournamentID != "t1" || e.Score != "2-0" {
			t.Errorf("event = %+v", e)
		}
	default:
		t.Fatal("subscriber received nothing")
	}
	select {
	case <-other:
		t.Error("subscriber of another topic received the event")
	default:
	}

	b.Unsubscribe(tournamentTopic, ch)
	if n := b.Subscribers(tournamentTopic); n != 0 {
		t.Errorf("subscribers after unsubscribe = %d, want 0", n)
	}
	b.Unsubscribe("elsewhere", other)
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(tournamentTopic)
	defer b.Unsubscribe(tournamentTopic, ch)

	for range cap(ch) + 5 {
		b.Publish(tournamentTopic, Event{Type: eventResultRecorded})
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d events, want %d", len(ch), cap(ch))
	}
}

func TestEventType(t *testing.T) {
	data, _ := json.Marshal(Event{Type: eventFinalsScheduled})
	if got := eventType(data); got != eventFinalsScheduled {
		t.Errorf("eventType = %q, want %q", got, eventFinalsScheduled)
	}
	if got := eventType([]byte("not json")); got != "message" {
		t.Errorf("eventType(garbage) = %q, want message", got)
	}
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()
	select {
	case <-b.Done():
		t.Fatal("done before close")
	default:
	}
	b.Close()
	b.Close()
	select {
	case <-b.Done():
	default:
		t.Fatal("done not closed")
	}
}
