package services

import (
	"fmt"
	"strings"

	"github.com/stresszero/quizbot-service/internal/models"
)

// BuildQuizRequest constructs the immutable request for one generation
// attempt. It performs no clamping: callers are expected to hand in
// already-ranged values, and anything outside range fails outright.
func BuildQuizRequest(material string, isFile bool, language models.QuizLanguage, count int, questionType models.QuestionType, difficulty models.DifficultyLevel, modelName string) (*models.QuizRequest, error) {
	if strings.TrimSpace(material) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, ErrMaterialMissing)
	}
	if count < 1 || count > 10 {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrInvalidRequest, ErrCountOutOfRange, count)
	}
	if modelName != "" && !isKnownModel(modelName) {
		return nil, fmt.Errorf("%w: %w (%s)", ErrInvalidRequest, ErrUnknownModel, modelName)
	}

	return &models.QuizRequest{
		ContextMaterial: material,
		IsFile:          isFile,
		Language:        language,
		Count:           count,
		QuestionType:    questionType,
		Difficulty:      difficulty,
		ModelName:       modelName,
	}, nil
}

// Prompt renders the textual payload the generation assistant consumes.
// The assistant itself carries the JSON output instructions; the prompt
// only supplies the material and the requested parameters.
func Prompt(req *models.QuizRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Context: %s\n", req.ContextMaterial))
	sb.WriteString(fmt.Sprintf("Quiz language: %s\n", req.Language))
	sb.WriteString(fmt.Sprintf("Quiz count: %d\n", req.Count))
	sb.WriteString(fmt.Sprintf("Quiz type: %s\n", req.QuestionType))
	sb.WriteString(fmt.Sprintf("Quiz difficulty: %s\n", req.Difficulty))
	return sb.String()
}

func isKnownModel(name string) bool {
	switch name {
	case models.ModelGPT4o, models.ModelGPT4oMini, models.ModelO1Preview, models.ModelO1Mini:
		return true
	}
	return false
}
