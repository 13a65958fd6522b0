package utils

import (
	"testing"

	"github.com/stresszero/quizbot-service/internal/models"
)

type validatedRequest struct {
	Language     models.QuizLanguage    `json:"language" validate:"required,quiz_language"`
	QuestionType models.QuestionType    `json:"question_type" validate:"required,question_type"`
	Difficulty   models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
}

func TestCustomValidators(t *testing.T) {
	v := NewValidator()

	valid := validatedRequest{
		Language:     models.LanguageKorean,
		QuestionType: models.MixedTypes,
		Difficulty:   models.DifficultyEasy,
	}
	if err := v.Validate(&valid); err != nil {
		t.Errorf("Expected valid request to pass, got %v", err)
	}

	cases := []struct {
		name string
		req  validatedRequest
	}{
		{"BadLanguage", validatedRequest{Language: "latin", QuestionType: models.MultipleChoice, Difficulty: models.DifficultyEasy}},
		{"BadQuestionType", validatedRequest{Language: models.LanguageEnglish, QuestionType: "essay", Difficulty: models.DifficultyEasy}},
		{"BadDifficulty", validatedRequest{Language: models.LanguageEnglish, QuestionType: models.MultipleChoice, Difficulty: "impossible"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.Validate(&tc.req); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}
}
