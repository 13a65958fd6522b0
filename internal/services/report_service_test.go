package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeTracker struct {
	notices []string
	err     error
	gotCtx  context.Context
}

func (f *fakeTracker) PostNotice(ctx context.Context, content string) error {
	f.gotCtx = ctx
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, content)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReportService_ReportSubjects(t *testing.T) {
	tracker := &fakeTracker{}
	service := NewReportService(tracker, discardLogger(), time.Second)

	service.ReportSubjects(context.Background(), []string{"math", "history"})

	if len(tracker.notices) != 1 {
		t.Fatalf("Expected 1 notice, got %d", len(tracker.notices))
	}
	if !strings.Contains(tracker.notices[0], "math, history") {
		t.Errorf("Expected notice to list the subjects, got:\n%s", tracker.notices[0])
	}
}

func TestReportService_ReportSubjects_EmptyIsNoop(t *testing.T) {
	tracker := &fakeTracker{}
	service := NewReportService(tracker, discardLogger(), time.Second)

	service.ReportSubjects(context.Background(), nil)

	if len(tracker.notices) != 0 {
		t.Errorf("Expected no notice for an empty subject set, got %d", len(tracker.notices))
	}
}

func TestReportService_ReportMistakes(t *testing.T) {
	tracker := &fakeTracker{}
	service := NewReportService(tracker, discardLogger(), time.Second)

	service.ReportMistakes(context.Background(), []string{"What is 2+2?"}, []string{"math"})

	if len(tracker.notices) != 1 {
		t.Fatalf("Expected 1 notice, got %d", len(tracker.notices))
	}
	notice := tracker.notices[0]
	if !strings.Contains(notice, "What is 2+2?") {
		t.Errorf("Expected notice to carry the missed question, got:\n%s", notice)
	}
	if !strings.Contains(notice, "math") {
		t.Errorf("Expected notice to carry the missed subjects, got:\n%s", notice)
	}
}

func TestReportService_FailuresAreSwallowed(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("thread unavailable")}
	service := NewReportService(tracker, discardLogger(), time.Second)

	// Neither call has an error return; reaching the next line is the test
	service.ReportSubjects(context.Background(), []string{"math"})
	service.ReportMistakes(context.Background(), []string{"q"}, []string{"s"})
}

func TestReportService_AppliesTimeout(t *testing.T) {
	tracker := &fakeTracker{}
	service := NewReportService(tracker, discardLogger(), time.Second)

	service.ReportSubjects(context.Background(), []string{"math"})

	if tracker.gotCtx == nil {
		t.Fatal("Expected the tracker to receive a context")
	}
	deadline, ok := tracker.gotCtx.Deadline()
	if !ok {
		t.Fatal("Expected the tracking context to carry a deadline")
	}
	if time.Until(deadline) > time.Second {
		t.Errorf("Expected deadline within 1s, got %v", time.Until(deadline))
	}
}
