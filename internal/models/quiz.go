package models

type QuizLanguage string

const (
	LanguageKorean  QuizLanguage = "korean"
	LanguageEnglish QuizLanguage = "english"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	MixedTypes     QuestionType = "mixed" // request-level only
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Assistant models the generation run may be pinned to.
const (
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
	ModelO1Preview = "o1-preview"
	ModelO1Mini    = "o1-mini"
)

// QuizRequest is the immutable payload handed to the generation assistant.
// One is built per generation attempt; the builder rejects out-of-range
// values instead of clamping them.
type QuizRequest struct {
	ContextMaterial string          `json:"context_material" validate:"required"`
	IsFile          bool            `json:"is_file"`
	Language        QuizLanguage    `json:"language" validate:"required,quiz_language"`
	Count           int             `json:"count" validate:"required,min=1,max=10"`
	QuestionType    QuestionType    `json:"question_type" validate:"required,question_type"`
	Difficulty      DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
	ModelName       string          `json:"model_name" validate:"omitempty,oneof=gpt-4o gpt-4o-mini o1-preview o1-mini"`
}

// Question is owned by the QuizSet that contains it and never mutated
// after parsing.
type Question struct {
	Text          string       `json:"text"`
	Options       []string     `json:"options"` // empty for fill-blank
	CorrectAnswer string       `json:"correct_answer"`
	Subjects      []string     `json:"subjects"`
	Explanation   string       `json:"explanation,omitempty"`
	Type          QuestionType `json:"type"`

	// TypeDefaulted marks questions whose quiz_type was absent or unknown
	// in the assistant reply and fell back to multiple choice. Kept so
	// logs can distinguish a declared multiple-choice question from a
	// defaulted one.
	TypeDefaulted bool `json:"type_defaulted,omitempty"`
}

type QuizSet struct {
	Questions []Question `json:"questions"`
}

func (qs *QuizSet) IsEmpty() bool {
	return qs == nil || len(qs.Questions) == 0
}

// SubjectUnion returns the deduplicated union of all question subjects,
// preserving first-seen order.
func (qs *QuizSet) SubjectUnion() []string {
	if qs == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var subjects []string
	for _, q := range qs.Questions {
		for _, s := range q.Subjects {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			subjects = append(subjects, s)
		}
	}
	return subjects
}
