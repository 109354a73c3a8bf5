// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-slingshot/pkg/physics"
)

// Type represents the type of event
type Type string

// Game event types
const (
	ActorLaunched  Type = "actor_launched"
	ActorCollision Type = "actor_collision"
	ActorDestroyed Type = "actor_destroyed"
	ActorRemoved   Type = "actor_removed"
	BirdReady      Type = "bird_ready"
	LevelStarted   Type = "level_started"
	LevelWon       Type = "level_won"
	LevelLost      Type = "level_lost"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it from the
// bus and is safe to call more than once.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	var once sync.Once
	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			once.Do(func() { b.remove(eventType, id) })
		},
	}
}

// Unsubscribe removes a subscription. A nil subscription is ignored.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil || sub.Cancel == nil {
		return
	}
	sub.Cancel()
}

func (b *Bus) remove(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, s := range handlers {
		if s.id != id {
			continue
		}
		// Copy so a Publish iterating the old slice is unaffected.
		next := make([]subscriber, 0, len(handlers)-1)
		next = append(next, handlers[:i]...)
		next = append(next, handlers[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, eventType)
		} else {
			b.handlers[eventType] = next
		}
		return
	}
}

// HandlerCount returns the number of handlers registered for eventType.
func (b *Bus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish sends an event to all subscribed handlers in subscription order
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(event)
	}
}

// ActorEvent reports something that happened to a single actor
type ActorEvent struct {
	BaseEvent
	ActorID uint64
	Kind    string
	Variant string
	Points  int
}

// NewActorEvent creates a new actor event
func NewActorEvent(eventType Type, source interface{}, actorID uint64, kind, variant string, points int) *ActorEvent {
	return &ActorEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ActorID: actorID,
		Kind:    kind,
		Variant: variant,
		Points:  points,
	}
}

// CollisionEvent reports a resolved contact between two actors
type CollisionEvent struct {
	BaseEvent
	A       uint64
	B       uint64
	Impulse float64
	Point   physics.Vector2D
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, a, b uint64, impulse float64, point physics.Vector2D) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: ActorCollision,
			Source:    source,
		},
		A:       a,
		B:       b,
		Impulse: impulse,
		Point:   point,
	}
}

// LevelEvent reports a level lifecycle change
type LevelEvent struct {
	BaseEvent
	LevelID int
	Name    string
	Score   int
	Stars   int
}

// NewLevelEvent creates a new level event
func NewLevelEvent(eventType Type, source interface{}, levelID int, name string, score, stars int) *LevelEvent {
	return &LevelEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		LevelID: levelID,
		Name:    name,
		Score:   score,
		Stars:   stars,
	}
}
