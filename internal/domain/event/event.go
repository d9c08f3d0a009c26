package event

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Event is a before/after record of one process state change. Payload carries
// only the form fields explicitly selected for that transition, never the
// whole submitted form.
type Event struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	ProcessID   string            `json:"process_id"`
	ProcessName string            `json:"process_name"`
	TargetID    string            `json:"target_id"`
	OldState    string            `json:"old_state"`
	NewState    string            `json:"new_state"`
	Trigger     string            `json:"trigger"`
	Actor       string            `json:"actor,omitempty"`
	Payload     map[string]string `json:"payload,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// New creates a process change event with a generated ID and current timestamp
func New(kind Kind, processID, processName, targetID string) *Event {
	return &Event{
		ID:          generateID(),
		Kind:        kind,
		ProcessID:   processID,
		ProcessName: processName,
		TargetID:    targetID,
		Timestamp:   time.Now(),
	}
}

// WithTransition records the before/after state names and the trigger fired
func (e *Event) WithTransition(oldState, newState, trigger string) *Event {
	e.OldState = oldState
	e.NewState = newState
	e.Trigger = trigger
	return e
}

// WithActor records who fired the trigger
func (e *Event) WithActor(actor string) *Event {
	e.Actor = actor
	return e
}

// WithPayload attaches one selected form field to the event
func (e *Event) WithPayload(key, value string) *Event {
	if e.Payload == nil {
		e.Payload = make(map[string]string)
	}
	e.Payload[key] = value
	return e
}

// generateID creates a unique ID using timestamp and random bytes
func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), hex.EncodeToString(b))
}
