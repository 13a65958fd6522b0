package services

import (
	"errors"
	"testing"

	"github.com/stresszero/quizbot-service/internal/models"
)

func TestParseQuizResponse_ValidReply(t *testing.T) {
	raw := `{"questions":[{"question":"Q1","answers":["a","b"],"correct_answer":"a","subjects":["math"]}]}`

	set, err := ParseQuizResponse(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(set.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(set.Questions))
	}

	q := set.Questions[0]
	if q.Text != "Q1" {
		t.Errorf("Expected question text 'Q1', got '%s'", q.Text)
	}
	if q.CorrectAnswer != "a" {
		t.Errorf("Expected correct answer 'a', got '%s'", q.CorrectAnswer)
	}
	if len(q.Options) != 2 || q.Options[0] != "a" || q.Options[1] != "b" {
		t.Errorf("Expected options [a b], got %v", q.Options)
	}
	if len(q.Subjects) != 1 || q.Subjects[0] != "math" {
		t.Errorf("Expected subjects [math], got %v", q.Subjects)
	}
	if q.Type != models.MultipleChoice {
		t.Errorf("Expected multiple choice fallback, got %s", q.Type)
	}
	if !q.TypeDefaulted {
		t.Error("Expected type to be flagged as defaulted when quiz_type is absent")
	}
}

func TestParseQuizResponse_PreservesQuestionOrder(t *testing.T) {
	raw := `{"questions":[
		{"question":"first","answers":["a"],"correct_answer":"a","subjects":["s1"]},
		{"question":"second","answers":["b"],"correct_answer":"b","subjects":["s2"]},
		{"question":"third","answers":["c"],"correct_answer":"c","subjects":["s3"]}
	]}`

	set, err := ParseQuizResponse(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(set.Questions) != 3 {
		t.Fatalf("Expected 3 questions, got %d", len(set.Questions))
	}
	for i, want := range []string{"first", "second", "third"} {
		if set.Questions[i].Text != want {
			t.Errorf("Question %d: expected '%s', got '%s'", i, want, set.Questions[i].Text)
		}
	}
}

func TestParseQuizResponse_WrappedJSON(t *testing.T) {
	// The assistant is known to wrap JSON across lines and pad it with prose
	raw := "Here is your quiz:\n{\"questions\":[{\"question\":\"Q1\",\n\"answers\":[\"a\"],\n\"correct_answer\":\"a\",\"subjects\":[\"history\"]}]}\nGood luck!"

	set, err := ParseQuizResponse(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(set.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(set.Questions))
	}
}

func TestParseQuizResponse_Failures(t *testing.T) {
	t.Run("EmptyReply", func(t *testing.T) {
		_, err := ParseQuizResponse("   ")
		if !errors.Is(err, ErrNoResponse) {
			t.Errorf("Expected ErrNoResponse, got %v", err)
		}
	})

	t.Run("NoBraces", func(t *testing.T) {
		raw := "I could not generate a quiz, sorry."
		_, err := ParseQuizResponse(raw)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("Expected ErrMalformedResponse, got %v", err)
		}

		// The raw reply travels with the error for diagnostics
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Expected *ParseError carrying the raw reply, got %v", err)
		}
		if pe.Raw != raw {
			t.Errorf("Expected raw reply %q, got %q", raw, pe.Raw)
		}
	})

	t.Run("InvalidJSONBetweenBraces", func(t *testing.T) {
		_, err := ParseQuizResponse(`{"questions": [}`)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Expected *ParseError, got %v", err)
		}
		if pe.Raw == "" {
			t.Error("Expected ParseError to carry the raw reply")
		}
	})

	t.Run("MissingSubjectsRejectsWholeSet", func(t *testing.T) {
		raw := `{"questions":[
			{"question":"ok","answers":["a"],"correct_answer":"a","subjects":["s"]},
			{"question":"bad","answers":["b"],"correct_answer":"b"}
		]}`
		set, err := ParseQuizResponse(raw)
		if !errors.Is(err, ErrSchemaRejected) {
			t.Errorf("Expected ErrSchemaRejected, got %v", err)
		}
		if set != nil {
			t.Error("Expected nil set when the schema check rejects, partial filtering is not allowed")
		}
	})

	t.Run("AllFailuresAreParseFailures", func(t *testing.T) {
		for _, raw := range []string{"", "no json here", `{"questions":[{}]}`} {
			if _, err := ParseQuizResponse(raw); err != nil && !IsParseFailure(err) {
				t.Errorf("Expected IsParseFailure for %q, got %v", raw, err)
			}
		}
	})
}

func TestParseQuizResponse_MissingQuestionsField(t *testing.T) {
	set, err := ParseQuizResponse(`{"message": "no quiz today"}`)
	if err != nil {
		t.Fatalf("Expected no error for absent questions field, got %v", err)
	}
	if !set.IsEmpty() {
		t.Error("Expected empty quiz set when questions field is absent")
	}

	set, err = ParseQuizResponse(`{"questions": "not a list"}`)
	if err != nil {
		t.Fatalf("Expected no error for non-array questions field, got %v", err)
	}
	if !set.IsEmpty() {
		t.Error("Expected empty quiz set when questions field is not a sequence")
	}
}

func TestParseQuizResponse_QuestionTypes(t *testing.T) {
	cases := []struct {
		declared  string
		wantType  models.QuestionType
		defaulted bool
	}{
		{"multiple_choice", models.MultipleChoice, false},
		{"객관식", models.MultipleChoice, false},
		{"true_false", models.TrueFalse, false},
		{"OX", models.TrueFalse, false},
		{"OX 퀴즈", models.TrueFalse, false},
		{"fill_blank", models.FillBlank, false},
		{"빈칸 채우기", models.FillBlank, false},
		{"essay", models.MultipleChoice, true},
		{"", models.MultipleChoice, true},
	}

	for _, tc := range cases {
		gotType, gotDefaulted := questionTypeFromWire(tc.declared)
		if gotType != tc.wantType {
			t.Errorf("quiz_type %q: expected %s, got %s", tc.declared, tc.wantType, gotType)
		}
		if gotDefaulted != tc.defaulted {
			t.Errorf("quiz_type %q: expected defaulted=%v, got %v", tc.declared, tc.defaulted, gotDefaulted)
		}
	}
}

func TestQuizSet_SubjectUnion(t *testing.T) {
	set := &models.QuizSet{Questions: []models.Question{
		{Subjects: []string{"math", "algebra"}},
		{Subjects: []string{"algebra", "geometry"}},
	}}

	union := set.SubjectUnion()
	want := []string{"math", "algebra", "geometry"}
	if len(union) != len(want) {
		t.Fatalf("Expected %d subjects, got %d: %v", len(want), len(union), union)
	}
	for i := range want {
		if union[i] != want[i] {
			t.Errorf("Subject %d: expected %s, got %s", i, want[i], union[i])
		}
	}
}
