// Package calendar implements the scheduling subsystem: the consumed
// calendar capability (free/busy plus event CRUD), an in-memory
// implementation of it, and the Scheduler that does availability
// computation, meeting creation, rescheduling and cancellation on top.
package calendar

import (
	"context"
	"time"
)

// Attendee is one meeting participant.
type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Reminder is a notification offset before the event start.
type Reminder struct {
	MinutesBefore int `json:"minutes_before"`
}

// Event is a calendar entry. ID is assigned by the backend on creation.
type Event struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Timezone    string     `json:"timezone"`
	Attendees   []Attendee `json:"attendees"`
	Location    string     `json:"location,omitempty"`
	VideoLink   string     `json:"video_link,omitempty"`
	Description string     `json:"description,omitempty"`
	Reminders   []Reminder `json:"reminders,omitempty"`
}

// Interval is an externally reported busy time range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Service is the consumed calendar backend capability: free/busy query over
// a time range plus event CRUD. Implementations must be safe for concurrent
// use.
type Service interface {
	// FreeBusy returns the busy intervals overlapping [from, to].
	FreeBusy(ctx context.Context, from, to time.Time) ([]Interval, error)

	// Create stores a new event and returns it with its assigned id.
	Create(ctx context.Context, ev Event) (Event, error)

	// Get returns an event by id.
	Get(ctx context.Context, id string) (Event, error)

	// Update replaces an existing event in place (matched by id).
	Update(ctx context.Context, ev Event) (Event, error)

	// Delete removes an event. notify controls whether attendees are told.
	Delete(ctx context.Context, id string, notify bool) error

	// List returns events starting within [from, to], chronologically,
	// capped at max when max > 0.
	List(ctx context.Context, from, to time.Time, max int) ([]Event, error)
}
