package models

import "time"

type SessionPhase string

const (
	PhaseEmpty     SessionPhase = "empty"
	PhaseGenerated SessionPhase = "generated"
	PhaseAnswered  SessionPhase = "answered"
	PhaseReviewed  SessionPhase = "reviewed"
)

type Verdict string

const (
	VerdictCorrect    Verdict = "correct"
	VerdictIncorrect  Verdict = "incorrect"
	VerdictUnanswered Verdict = "unanswered"
)

// SessionState is the authoritative per-session quiz state. Exactly one
// exists per session ID; it owns at most one QuizSet at a time, replaced
// wholesale on regeneration. WrongQuestions and WrongSubjects are derived
// data, recomputed in full on every submission, and only meaningful in the
// answered and reviewed phases.
type SessionState struct {
	ID      string       `json:"id"`
	Phase   SessionPhase `json:"phase"`
	QuizSet *QuizSet     `json:"quiz_set,omitempty"`

	// Source is the material reference the quiz was generated from,
	// shown alongside results.
	Source string `json:"source,omitempty"`

	SubmittedAnswers map[int]string `json:"submitted_answers,omitempty"`
	WrongQuestions   []string       `json:"wrong_questions,omitempty"`
	WrongSubjects    []string       `json:"wrong_subjects,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionState(id string) *SessionState {
	now := time.Now()
	return &SessionState{
		ID:        id,
		Phase:     PhaseEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// QuestionResult is one graded question as surfaced for review and export.
type QuestionResult struct {
	Index         int      `json:"index"`
	Text          string   `json:"text"`
	Submitted     string   `json:"submitted,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Verdict       Verdict  `json:"verdict"`
	Subjects      []string `json:"subjects"`
	Explanation   string   `json:"explanation,omitempty"`
}
