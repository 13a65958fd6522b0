package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stresszero/quizbot-service/internal/cache"
	"github.com/stresszero/quizbot-service/internal/events"
	"github.com/stresszero/quizbot-service/internal/models"
	"github.com/stresszero/quizbot-service/internal/repositories"
)

// stubGenerator returns a canned assistant reply or error.
type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) GenerateQuiz(ctx context.Context, req *models.QuizRequest) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

// recordingReporter captures report calls without any transport.
type recordingReporter struct {
	subjectCalls [][]string
	mistakeCalls [][]string
}

func (r *recordingReporter) ReportSubjects(ctx context.Context, subjects []string) {
	r.subjectCalls = append(r.subjectCalls, subjects)
}

func (r *recordingReporter) ReportMistakes(ctx context.Context, questions, subjects []string) {
	r.mistakeCalls = append(r.mistakeCalls, questions)
}

type sessionServiceFixture struct {
	service   SessionService
	store     repositories.SessionStore
	generator *stubGenerator
	reporter  *recordingReporter
	publisher *events.MockEventPublisher
}

func newSessionServiceFixture(reply string, genErr error) *sessionServiceFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	generator := &stubGenerator{reply: reply, err: genErr}
	reporter := &recordingReporter{}
	publisher := events.NewMockEventPublisher(logger)
	store := repositories.NewSessionStore(cache.NewMemoryCache(), time.Hour)

	return &sessionServiceFixture{
		service:   NewSessionService(store, generator, reporter, publisher, logger),
		store:     store,
		generator: generator,
		reporter:  reporter,
		publisher: publisher,
	}
}

const validReply = `{"questions":[
	{"question":"What is 2+2?","answers":["3","4"],"correct_answer":"4","subjects":["math"],"quiz_type":"multiple_choice"},
	{"question":"The capital of France is ___.","correct_answer":"Paris","subjects":["geography"],"quiz_type":"fill_blank","explanation":"Paris has been the capital since 987."}
]}`

func quizRequest(t *testing.T) *models.QuizRequest {
	t.Helper()
	req, err := BuildQuizRequest("study material", false, models.LanguageEnglish, 2, models.MixedTypes, models.DifficultyMedium, "")
	require.NoError(t, err)
	return req
}

func TestSessionService_Generate(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	result, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)
	assert.Empty(t, result.Notice)
	assert.Equal(t, models.PhaseGenerated, result.State.Phase)
	require.NotNil(t, result.State.QuizSet)
	assert.Len(t, result.State.QuizSet.Questions, 2)

	// Subjects of every question are reported exactly once
	require.Len(t, f.reporter.subjectCalls, 1)
	assert.Equal(t, []string{"math", "geography"}, f.reporter.subjectCalls[0])

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuizGenerated, published[0].Type)

	// State survives a store round trip
	loaded, err := f.service.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseGenerated, loaded.Phase)
	assert.Len(t, loaded.QuizSet.Questions, 2)
}

func TestSessionService_Generate_DegradesOnBadReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		err   error
	}{
		{"MalformedReply", "sorry, no JSON here", nil},
		{"SchemaRejected", `{"questions":[{"question":"q","correct_answer":"a"}]}`, nil},
		{"EmptyQuestions", `{"questions":[]}`, nil},
		{"ClientError", "", errors.New("assistant run failed")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSessionServiceFixture(tc.reply, tc.err)
			ctx := context.Background()

			result, err := f.service.Generate(ctx, "session-1", quizRequest(t))
			require.NoError(t, err, "a bad assistant reply must degrade, not fail")
			assert.NotEmpty(t, result.Notice)
			assert.Equal(t, models.PhaseEmpty, result.State.Phase)
			assert.True(t, result.State.QuizSet.IsEmpty())

			assert.Empty(t, f.reporter.subjectCalls, "no subjects reported without a quiz")
			assert.Empty(t, f.publisher.GetPublishedEvents())
		})
	}
}

func TestSessionService_Generate_NoticeCarriesRawReply(t *testing.T) {
	rawReply := "I could not build a quiz for that topic, sorry."
	f := newSessionServiceFixture(rawReply, nil)

	result, err := f.service.Generate(context.Background(), "session-1", quizRequest(t))
	require.NoError(t, err)
	assert.Contains(t, result.Notice, "The reply format was not valid")
	assert.Contains(t, result.Notice, rawReply, "the assistant's actual reply is surfaced for diagnostics")
}

func TestSessionService_Generate_RequiresEmptyPhase(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)

	_, err = f.service.Generate(ctx, "session-1", quizRequest(t))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, IsConflict(err))
	assert.Equal(t, 1, f.generator.calls, "the conflicting attempt is rejected before the assistant call")
}

func TestSessionService_Submit(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)

	result, err := f.service.Submit(ctx, "session-1", map[int]string{0: "3", 1: " paris "})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAnswered, result.State.Phase)
	require.Len(t, result.Results, 2)
	assert.Equal(t, models.VerdictIncorrect, result.Results[0].Verdict)
	assert.Equal(t, models.VerdictCorrect, result.Results[1].Verdict, "fill-blank grading ignores case and whitespace")

	assert.Equal(t, []string{"What is 2+2?"}, result.State.WrongQuestions)
	assert.Equal(t, []string{"math"}, result.State.WrongSubjects)

	// Mistakes are reported once with the wrong questions
	require.Len(t, f.reporter.mistakeCalls, 1)
	assert.Equal(t, []string{"What is 2+2?"}, f.reporter.mistakeCalls[0])

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventQuizGraded, published[1].Type)
}

func TestSessionService_Submit_AllCorrectSkipsMistakeReport(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)

	result, err := f.service.Submit(ctx, "session-1", map[int]string{0: "4", 1: "Paris"})
	require.NoError(t, err)
	assert.Empty(t, result.State.WrongQuestions)
	assert.Empty(t, f.reporter.mistakeCalls, "no mistake report when nothing was wrong")
}

func TestSessionService_Submit_UnansweredNotWrong(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)

	result, err := f.service.Submit(ctx, "session-1", map[int]string{})
	require.NoError(t, err)
	for _, r := range result.Results {
		assert.Equal(t, models.VerdictUnanswered, r.Verdict)
	}
	assert.Empty(t, result.State.WrongQuestions)
	assert.Empty(t, f.reporter.mistakeCalls)
}

func TestSessionService_Submit_IdempotentRegrade(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)

	answers := map[int]string{0: "3", 1: "Berlin"}
	first, err := f.service.Submit(ctx, "session-1", answers)
	require.NoError(t, err)
	second, err := f.service.Submit(ctx, "session-1", answers)
	require.NoError(t, err)

	assert.Equal(t, first.State.WrongQuestions, second.State.WrongQuestions)
	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Verdict, second.Results[i].Verdict)
	}
}

func TestSessionService_Submit_PhaseErrors(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	t.Run("NoSession", func(t *testing.T) {
		_, err := f.service.Submit(ctx, "missing", map[int]string{})
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("EmptyPhase", func(t *testing.T) {
		require.NoError(t, f.store.Save(ctx, models.NewSessionState("session-1")))
		_, err := f.service.Submit(ctx, "session-1", map[int]string{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("AfterReset", func(t *testing.T) {
		require.NoError(t, f.service.Reset(ctx, "session-1"))
		_, err := f.service.Submit(ctx, "session-1", map[int]string{})
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionService_Review(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)

	t.Run("BeforeSubmit", func(t *testing.T) {
		_, err := f.service.Review(ctx, "session-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	submitted, err := f.service.Submit(ctx, "session-1", map[int]string{0: "4"})
	require.NoError(t, err)

	review, err := f.service.Review(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseReviewed, review.State.Phase)

	// Review derives the same results the submission produced
	require.Len(t, review.Results, len(submitted.Results))
	for i := range submitted.Results {
		assert.Equal(t, submitted.Results[i].Verdict, review.Results[i].Verdict)
		assert.Equal(t, submitted.Results[i].Text, review.Results[i].Text)
		assert.Equal(t, submitted.Results[i].CorrectAnswer, review.Results[i].CorrectAnswer)
		assert.Equal(t, submitted.Results[i].Explanation, review.Results[i].Explanation)
	}

	t.Run("ReviewAgain", func(t *testing.T) {
		again, err := f.service.Review(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, models.PhaseReviewed, again.State.Phase)
	})
}

func TestSessionService_Reset(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)
	_, err = f.service.Submit(ctx, "session-1", map[int]string{0: "3"})
	require.NoError(t, err)
	_, err = f.service.Review(ctx, "session-1")
	require.NoError(t, err)

	require.NoError(t, f.service.Reset(ctx, "session-1"))

	// Reset deletes the stored state rather than writing an empty one
	_, err = f.store.Get(ctx, "session-1")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	state, err := f.service.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseEmpty, state.Phase)
	assert.True(t, state.QuizSet.IsEmpty())
	assert.Empty(t, state.SubmittedAnswers)
	assert.Empty(t, state.WrongQuestions)
	assert.Empty(t, state.WrongSubjects)

	published := f.publisher.GetPublishedEvents()
	require.NotEmpty(t, published)
	assert.Equal(t, events.EventSessionReset, published[len(published)-1].Type)

	// A fresh generation is allowed after reset
	result, err := f.service.Generate(ctx, "session-1", quizRequest(t))
	require.NoError(t, err)
	assert.Equal(t, models.PhaseGenerated, result.State.Phase)
}

func TestSessionService_Get_UnknownSessionIsEmpty(t *testing.T) {
	f := newSessionServiceFixture(validReply, nil)

	state, err := f.service.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseEmpty, state.Phase)
	assert.True(t, state.QuizSet.IsEmpty())
}
