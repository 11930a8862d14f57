package server

import (
	"encoding/json"
	"sync"
)

const tournamentTopic = "tournament"

// Event types published on the tournament topic.
const (
	eventTournamentCreated   = "tournament_created"
	eventResultRecorded      = "result_recorded"
	eventPlayoffsStarted     = "playoffs_started"
	eventFinalsScheduled     = "finals_scheduled"
	eventTournamentCompleted = "tournament_completed"
)

// Event is the payload pushed to SSE subscribers.
type Event struct {
	Type         string `json:"type"`
	TournamentID string `json:"tournamentId"`
	Phase        string `json:"phase"`
	Stage        string `json:"stage,omitempty"`
	Player1      string `json:"player1,omitempty"`
	Player2      string `json:"player2,omitempty"`
	Score        string `json:"score,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
		done: make(chan struct{}),
	}
}

// Close tells every stream to finish. It is registered as a server shutdown
// hook so open streams do not hold up a graceful stop.
func (b *Broker) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Done is closed once the broker is closed.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

// Subscribe returns a channel that receives JSON-encoded events for the topic.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the topic.
func (b *Broker) Publish(topic string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports how many channels listen on the topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
