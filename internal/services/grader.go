package services

import (
	"strings"

	"github.com/stresszero/quizbot-service/internal/models"
)

// GradeAnswer compares a submitted answer to a question's expected answer
// under the type-specific rule. There is no partial credit and no fuzzy
// matching.
//
// Multiple-choice and true-false use exact string equality; fill-blank is
// case-insensitive and ignores leading/trailing whitespace. A question
// with an unrecognized type already fell back to multiple choice during
// parsing, so only the three known types appear here.
func GradeAnswer(question models.Question, submitted string) models.Verdict {
	switch question.Type {
	case models.FillBlank:
		trimmed := strings.TrimSpace(submitted)
		if trimmed == "" {
			return models.VerdictUnanswered
		}
		if strings.EqualFold(trimmed, strings.TrimSpace(question.CorrectAnswer)) {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	default:
		if submitted == "" {
			return models.VerdictUnanswered
		}
		if submitted == question.CorrectAnswer {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	}
}

// GradingOutcome is the derived result of grading a full quiz set against
// the recorded submissions. It is recomputed wholesale on every
// submission, never updated incrementally.
type GradingOutcome struct {
	Results        []models.QuestionResult
	WrongQuestions []string
	WrongSubjects  []string
}

// GradeQuizSet grades every question in order. Unanswered questions are
// reported as such but never counted among the wrong ones.
func GradeQuizSet(set *models.QuizSet, answers map[int]string) GradingOutcome {
	outcome := GradingOutcome{}
	if set == nil {
		return outcome
	}

	wrongSubjects := make(map[string]struct{})
	for i, question := range set.Questions {
		submitted := answers[i]
		verdict := GradeAnswer(question, submitted)

		outcome.Results = append(outcome.Results, models.QuestionResult{
			Index:         i,
			Text:          question.Text,
			Submitted:     submitted,
			CorrectAnswer: question.CorrectAnswer,
			Verdict:       verdict,
			Subjects:      question.Subjects,
			Explanation:   question.Explanation,
		})

		if verdict == models.VerdictIncorrect {
			outcome.WrongQuestions = append(outcome.WrongQuestions, question.Text)
			for _, s := range question.Subjects {
				if _, ok := wrongSubjects[s]; ok {
					continue
				}
				wrongSubjects[s] = struct{}{}
				outcome.WrongSubjects = append(outcome.WrongSubjects, s)
			}
		}
	}
	return outcome
}
