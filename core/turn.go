package core

import "time"

// Turn is one completed exchange: the user message paired with the assistant
// answer it produced. Turns are immutable once recorded and are the unit of
// session history persistence.
type Turn struct {
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTurn creates a Turn stamped with the current UTC time.
func NewTurn(userText, assistantText string) Turn {
	return Turn{UserText: userText, AssistantText: assistantText, Timestamp: time.Now().UTC()}
}
