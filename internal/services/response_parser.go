package services

import (
	"encoding/json"
	"strings"

	"github.com/stresszero/quizbot-service/internal/models"
)

// ParseQuizResponse extracts a validated QuizSet from the generation
// assistant's raw text reply. The assistant is a free-text model and is
// not guaranteed to return strict JSON, so this is defensive extraction,
// not protocol decoding: the reply is newline-stripped, the substring
// between the first '{' and the last '}' is sliced out, and the result
// is decoded into a loosely-typed value before an explicit schema pass
// produces typed questions.
//
// Error kinds returned here (ErrNoResponse, ErrMalformedResponse,
// *ParseError, ErrSchemaRejected) are all converted to an empty-set
// signal at the session boundary; none of them propagate as fatal.
func ParseQuizResponse(raw string) (*models.QuizSet, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoResponse
	}

	// The assistant is known to wrap JSON across lines
	normalized := strings.ReplaceAll(raw, "\n", "")

	start := strings.Index(normalized, "{")
	end := strings.LastIndex(normalized, "}")
	if start == -1 || end == -1 || end < start {
		// Carry the raw reply so the caller can surface what the
		// assistant actually said.
		return nil, NewParseError(raw, ErrMalformedResponse)
	}
	payload := normalized[start : end+1]

	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, NewParseError(raw, err)
	}

	rawQuestions, ok := decoded["questions"].([]any)
	if !ok {
		// Decoded fine but no usable questions array: empty set, no error
		return &models.QuizSet{}, nil
	}

	questions := make([]models.Question, 0, len(rawQuestions))
	for _, rq := range rawQuestions {
		entry, ok := rq.(map[string]any)
		if !ok {
			return nil, ErrSchemaRejected
		}
		// Partial validity is not accepted: one bad element rejects
		// the whole set and the session prompts regeneration.
		if _, ok := entry["subjects"]; !ok {
			return nil, ErrSchemaRejected
		}
		questions = append(questions, questionFromWire(entry))
	}

	return &models.QuizSet{Questions: questions}, nil
}

func questionFromWire(entry map[string]any) models.Question {
	q := models.Question{
		Text:          stringField(entry, "question"),
		Options:       stringSliceField(entry, "answers"),
		CorrectAnswer: stringField(entry, "correct_answer"),
		Subjects:      stringSliceField(entry, "subjects"),
		Explanation:   stringField(entry, "explanation"),
	}
	q.Type, q.TypeDefaulted = questionTypeFromWire(stringField(entry, "quiz_type"))
	return q
}

// questionTypeFromWire maps the assistant's declared quiz_type onto a
// known type. The assistant replies with either the canonical names or
// the Korean labels it was configured with. An absent or unknown value
// falls back to multiple choice and is flagged as defaulted.
func questionTypeFromWire(declared string) (models.QuestionType, bool) {
	switch declared {
	case string(models.MultipleChoice), "객관식":
		return models.MultipleChoice, false
	case string(models.TrueFalse), "OX", "OX 퀴즈":
		return models.TrueFalse, false
	case string(models.FillBlank), "빈칸 채우기":
		return models.FillBlank, false
	}
	return models.MultipleChoice, true
}

func stringField(entry map[string]any, key string) string {
	if v, ok := entry[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceField(entry map[string]any, key string) []string {
	raw, ok := entry[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
