package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the quiz lifecycle events the service emits
type EventType string

const (
	EventQuizGenerated EventType = "quiz.generated"
	EventQuizGraded    EventType = "quiz.graded"
	EventSessionReset  EventType = "session.reset"
)

// QuizEvent is the envelope for all published quiz lifecycle events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewQuizEvent builds an event envelope with the service identity filled in
func NewQuizEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "quizbot-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Event payloads

type QuizGeneratedEvent struct {
	SessionID     string   `json:"session_id"`
	Source        string   `json:"source"`
	QuestionCount int      `json:"question_count"`
	Subjects      []string `json:"subjects"`
}

type QuizGradedEvent struct {
	SessionID      string   `json:"session_id"`
	QuestionCount  int      `json:"question_count"`
	WrongCount     int      `json:"wrong_count"`
	UnansweredSkip int      `json:"unanswered_count"`
	WrongSubjects  []string `json:"wrong_subjects,omitempty"`
}

type SessionResetEvent struct {
	SessionID string `json:"session_id"`
	FromPhase string `json:"from_phase"`
}
