package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stresszero/quizbot-service/internal/events"
	"github.com/stresszero/quizbot-service/internal/models"
	"github.com/stresszero/quizbot-service/internal/repositories"
)

// GenerationClient runs one generation attempt against the hosted quiz
// assistant and returns the raw text of its reply. An empty reply is
// reported as ErrNoResponse.
type GenerationClient interface {
	GenerateQuiz(ctx context.Context, req *models.QuizRequest) (string, error)
}

// SessionService drives the per-session quiz lifecycle:
//
//	empty -> generated -> answered -> reviewed
//
// with a reset transition from any phase back to empty. Each session
// action runs to completion before the next is accepted; state is loaded
// and stored wholesale per action, keyed by session ID.
type SessionService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Generate(ctx context.Context, sessionID string, req *models.QuizRequest) (*GenerateResult, error)
	Submit(ctx context.Context, sessionID string, answers map[int]string) (*SubmitResult, error)
	Review(ctx context.Context, sessionID string) (*ReviewResult, error)
	Reset(ctx context.Context, sessionID string) error
}

// GenerateResult carries the post-generation state. Notice is set when
// the attempt degraded to "no quiz produced" and holds the user-visible
// explanation; the session never fails fatally on a bad assistant reply.
type GenerateResult struct {
	State  *models.SessionState `json:"state"`
	Notice string               `json:"notice,omitempty"`
}

type SubmitResult struct {
	State   *models.SessionState    `json:"state"`
	Results []models.QuestionResult `json:"results"`
}

type ReviewResult struct {
	State   *models.SessionState    `json:"state"`
	Results []models.QuestionResult `json:"results"`
}

type sessionService struct {
	store     repositories.SessionStore
	generator GenerationClient
	reporter  ReportService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
}

func NewSessionService(
	store repositories.SessionStore,
	generator GenerationClient,
	reporter ReportService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		store:     store,
		generator: generator,
		reporter:  reporter,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, "session"),
	}
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return models.NewSessionState(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	return state, nil
}

// Generate runs one generation attempt. A malformed or empty assistant
// reply leaves the session in the empty phase and returns a notice; only
// store failures surface as errors.
func (s *sessionService) Generate(ctx context.Context, sessionID string, req *models.QuizRequest) (result *GenerateResult, err error) {
	op := s.opLog.WithOperation(ctx, "generate", sessionID)
	defer func() { op.LogResult(err) }()

	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Phase != models.PhaseEmpty {
		return nil, fmt.Errorf("%w: generate requires an empty session, current phase is %s", ErrInvalidTransition, state.Phase)
	}

	s.logger.Info("Generating quiz", "session_id", sessionID, "count", req.Count, "type", req.QuestionType)

	raw, err := s.generator.GenerateQuiz(ctx, req)
	if err != nil {
		s.logger.Warn("Quiz generation call failed", "session_id", sessionID, "error", err)
		return &GenerateResult{State: state, Notice: "Quiz generation failed. Please try again."}, nil
	}

	set, err := ParseQuizResponse(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			s.logger.Warn("Quiz reply rejected", "session_id", sessionID, "error", err, "raw", pe.Raw)
		} else {
			s.logger.Warn("Quiz reply rejected", "session_id", sessionID, "error", err)
		}
		return &GenerateResult{State: state, Notice: parseNotice(err)}, nil
	}
	if set.IsEmpty() {
		return &GenerateResult{State: state, Notice: "The assistant produced no quiz. Please try again."}, nil
	}

	for _, q := range set.Questions {
		if q.TypeDefaulted {
			s.logger.Warn("Question type defaulted to multiple choice",
				"session_id", sessionID, "question", q.Text)
		}
	}

	state.QuizSet = set
	state.Phase = models.PhaseGenerated
	state.Source = req.ContextMaterial
	state.SubmittedAnswers = nil
	state.WrongQuestions = nil
	state.WrongSubjects = nil

	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}

	subjects := set.SubjectUnion()
	s.reporter.ReportSubjects(ctx, subjects)
	s.publish(ctx, events.NewQuizEvent(events.EventQuizGenerated, events.QuizGeneratedEvent{
		SessionID:     sessionID,
		Source:        state.Source,
		QuestionCount: len(set.Questions),
		Subjects:      subjects,
	}))

	return &GenerateResult{State: state}, nil
}

// Submit grades all questions against the recorded answers. Resubmitting
// before a reset is allowed and regrades from scratch with the same
// rules, so identical answers yield identical verdicts.
func (s *sessionService) Submit(ctx context.Context, sessionID string, answers map[int]string) (result *SubmitResult, err error) {
	op := s.opLog.WithOperation(ctx, "submit", sessionID)
	defer func() { op.LogResult(err) }()

	state, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Phase != models.PhaseGenerated && state.Phase != models.PhaseAnswered {
		return nil, fmt.Errorf("%w: submit requires a generated quiz, current phase is %s", ErrInvalidTransition, state.Phase)
	}
	if state.QuizSet.IsEmpty() {
		return nil, ErrNoQuizGenerated
	}

	outcome := GradeQuizSet(state.QuizSet, answers)

	state.SubmittedAnswers = answers
	state.WrongQuestions = outcome.WrongQuestions
	state.WrongSubjects = outcome.WrongSubjects
	state.Phase = models.PhaseAnswered

	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}

	if len(outcome.WrongQuestions) > 0 {
		s.reporter.ReportMistakes(ctx, outcome.WrongQuestions, outcome.WrongSubjects)
	}
	unanswered := 0
	for _, r := range outcome.Results {
		if r.Verdict == models.VerdictUnanswered {
			unanswered++
		}
	}
	s.publish(ctx, events.NewQuizEvent(events.EventQuizGraded, events.QuizGradedEvent{
		SessionID:      sessionID,
		QuestionCount:  len(state.QuizSet.Questions),
		WrongCount:     len(outcome.WrongQuestions),
		UnansweredSkip: unanswered,
		WrongSubjects:  outcome.WrongSubjects,
	}))

	return &SubmitResult{State: state, Results: outcome.Results}, nil
}

// Review marks the session as reviewed. It is a presentation-readiness
// transition only; the returned results are derived from the stored quiz
// set and answers, nothing is regraded or mutated.
func (s *sessionService) Review(ctx context.Context, sessionID string) (result *ReviewResult, err error) {
	op := s.opLog.WithOperation(ctx, "review", sessionID)
	defer func() { op.LogResult(err) }()

	state, err := s.requireSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Phase != models.PhaseAnswered && state.Phase != models.PhaseReviewed {
		return nil, fmt.Errorf("%w: review requires an answered quiz, current phase is %s", ErrInvalidTransition, state.Phase)
	}

	state.Phase = models.PhaseReviewed
	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}

	outcome := GradeQuizSet(state.QuizSet, state.SubmittedAnswers)
	return &ReviewResult{State: state, Results: outcome.Results}, nil
}

// Reset discards the quiz set and all answer state unconditionally and
// returns the session to the empty phase. The stored state is deleted
// outright; Get materializes a fresh empty state on the next read.
func (s *sessionService) Reset(ctx context.Context, sessionID string) (err error) {
	op := s.opLog.WithOperation(ctx, "reset", sessionID)
	defer func() { op.LogResult(err) }()

	fromPhase := models.PhaseEmpty
	if existing, err := s.store.Get(ctx, sessionID); err == nil {
		fromPhase = existing.Phase
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset session state: %w", err)
	}

	s.publish(ctx, events.NewQuizEvent(events.EventSessionReset, events.SessionResetEvent{
		SessionID: sessionID,
		FromPhase: string(fromPhase),
	}))
	return nil
}

func (s *sessionService) requireSession(ctx context.Context, sessionID string) (*models.SessionState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	return state, nil
}

// publish is fire and forget: a broker failure never blocks or rolls
// back the transition that produced the event.
func (s *sessionService) publish(ctx context.Context, event *events.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish quiz event", "event_type", event.Type, "error", err)
	}
}

func parseNotice(err error) string {
	var pe *ParseError
	switch {
	case errors.Is(err, ErrNoResponse):
		return "Quiz generation failed: the assistant returned no reply. Please try again."
	case errors.Is(err, ErrMalformedResponse):
		// The raw reply is the diagnostic: show what the assistant
		// actually said instead of a quiz.
		notice := "The reply format was not valid. Please try again."
		if errors.As(err, &pe) && pe.Raw != "" {
			notice = fmt.Sprintf("%s\nAssistant reply: %s", notice, pe.Raw)
		}
		return notice
	case errors.Is(err, ErrSchemaRejected):
		return "The quiz data format was not valid. Please try again."
	default:
		if errors.As(err, &pe) {
			return fmt.Sprintf("An error occurred while processing the quiz data: %v\nAssistant reply: %s", pe.Err, pe.Raw)
		}
		return "Quiz generation failed. Please try again."
	}
}
