package engine

import (
	"time"

	"github.com/arenalabs/saboteur-arena/internal/registry"
	"github.com/arenalabs/saboteur-arena/internal/roster"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart     EventType = "round_start"
	EventTypeTurnTaken      EventType = "turn_taken"
	EventTypeSubmission     EventType = "submission"
	EventTypeReviewDone     EventType = "review_done"
	EventTypeElimination    EventType = "elimination"
	EventTypeAccusationMiss EventType = "accusation_miss"
	EventTypeGameEnd        EventType = "game_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a game run
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published at the top of every round
type RoundStartEvent struct {
	Round     int
	Active    []string
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// TurnTakenEvent is published after every resolved turn
type TurnTakenEvent struct {
	Round     int
	Actor     string
	Action    string
	Target    string
	Reasoning string
	timestamp time.Time
}

func (e TurnTakenEvent) EventType() EventType { return EventTypeTurnTaken }
func (e TurnTakenEvent) Timestamp() time.Time { return e.timestamp }

// SubmissionEvent is published when a solution is accepted by the registry
type SubmissionEvent struct {
	Round        int
	Author       string
	ProblemID    int
	SubmissionID int64
	timestamp    time.Time
}

func (e SubmissionEvent) EventType() EventType { return EventTypeSubmission }
func (e SubmissionEvent) Timestamp() time.Time { return e.timestamp }

// ReviewDoneEvent is published when a review completes
type ReviewDoneEvent struct {
	Round      int
	Reviewer   string
	Author     string
	Submission *registry.Submission
	Approved   bool
	timestamp  time.Time
}

func (e ReviewDoneEvent) EventType() EventType { return EventTypeReviewDone }
func (e ReviewDoneEvent) Timestamp() time.Time { return e.timestamp }

// EliminationEvent is published when an accusation lands and an actor is
// removed. Role is included for observers; the in-game broadcast stays
// role-neutral.
type EliminationEvent struct {
	Round     int
	Accuser   string
	Accused   string
	Role      roster.Role
	timestamp time.Time
}

func (e EliminationEvent) EventType() EventType { return EventTypeElimination }
func (e EliminationEvent) Timestamp() time.Time { return e.timestamp }

// AccusationMissEvent is published when an accusation names a non-Saboteur
type AccusationMissEvent struct {
	Round     int
	Accuser   string
	Accused   string
	timestamp time.Time
}

func (e AccusationMissEvent) EventType() EventType { return EventTypeAccusationMiss }
func (e AccusationMissEvent) Timestamp() time.Time { return e.timestamp }

// GameEndEvent is published once, when the run terminates
type GameEndEvent struct {
	Round     int
	Reason    EndReason
	timestamp time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
