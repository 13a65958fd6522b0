package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stresszero/quizbot-service/internal/models"
	"github.com/stresszero/quizbot-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a graded session as a downloadable spreadsheet
type ExportService interface {
	ExportSessionResults(ctx context.Context, sessionID string) ([]byte, error)
}

type exportService struct {
	store  repositories.SessionStore
	logger *slog.Logger
}

func NewExportService(store repositories.SessionStore, logger *slog.Logger) ExportService {
	return &exportService{
		store:  store,
		logger: logger,
	}
}

// ExportSessionResults writes one row per question with the submitted
// answer, verdict and explanation. Only graded sessions can be exported.
func (s *exportService) ExportSessionResults(ctx context.Context, sessionID string) ([]byte, error) {
	state, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	if state.Phase != models.PhaseAnswered && state.Phase != models.PhaseReviewed {
		return nil, fmt.Errorf("%w: export requires a graded quiz, current phase is %s", ErrInvalidTransition, state.Phase)
	}
	if state.QuizSet.IsEmpty() {
		return nil, ErrNoQuizGenerated
	}

	outcome := GradeQuizSet(state.QuizSet, state.SubmittedAnswers)

	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Question #", "Question", "Submitted Answer", "Correct Answer",
		"Verdict", "Subjects", "Explanation",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, result := range outcome.Results {
		explanation := result.Explanation
		if explanation == "" {
			explanation = "no explanation"
		}
		row := []interface{}{
			result.Index + 1,
			result.Text,
			result.Submitted,
			result.CorrectAnswer,
			string(result.Verdict),
			strings.Join(result.Subjects, ", "),
			explanation,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported session results", "session_id", sessionID, "rows", len(outcome.Results))
	return buf.Bytes(), nil
}
