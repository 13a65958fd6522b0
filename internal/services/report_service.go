package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// TrackingClient posts free-text notices onto the persistent LearningMate
// conversation. No response contract is relied upon.
type TrackingClient interface {
	PostNotice(ctx context.Context, content string) error
}

// ReportService sends one-way notifications about quiz activity to the
// tracking conversation. Both calls are best effort: a single attempt,
// failures logged and swallowed, never affecting the session transition
// that triggered them.
type ReportService interface {
	// ReportSubjects is invoked once per successful generation with the
	// union of all question subjects. No-op for an empty set.
	ReportSubjects(ctx context.Context, subjects []string)

	// ReportMistakes is invoked once per grading event that produced at
	// least one incorrect answer.
	ReportMistakes(ctx context.Context, questions, subjects []string)
}

type reportService struct {
	tracker TrackingClient
	logger  *slog.Logger
	timeout time.Duration
}

func NewReportService(tracker TrackingClient, logger *slog.Logger, timeout time.Duration) ReportService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &reportService{
		tracker: tracker,
		logger:  logger,
		timeout: timeout,
	}
}

func (s *reportService) ReportSubjects(ctx context.Context, subjects []string) {
	if len(subjects) == 0 {
		return
	}

	notice := fmt.Sprintf(
		"The user is about to take a quiz covering these subjects. Remember them.\nQuiz subjects: %s",
		strings.Join(subjects, ", "),
	)
	s.post(ctx, notice, "quiz subjects", len(subjects))
}

func (s *reportService) ReportMistakes(ctx context.Context, questions, subjects []string) {
	if len(questions) == 0 {
		return
	}

	notice := fmt.Sprintf(
		"The user answered these questions incorrectly in the quiz just taken. Remember them.\nMissed questions:\n%s\nMissed subjects: %s",
		strings.Join(questions, "\n"),
		strings.Join(subjects, ", "),
	)
	s.post(ctx, notice, "quiz mistakes", len(questions))
}

func (s *reportService) post(ctx context.Context, notice, kind string, count int) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.tracker.PostNotice(ctx, notice); err != nil {
		s.logger.Warn("Tracking notice failed", "kind", kind, "count", count, "error", err)
		return
	}
	s.logger.Info("Tracking notice sent", "kind", kind, "count", count)
}
