package validation

import (
	"errors"
	"reflect"
	"testing"

	"shuati_backend/internal/model"
)

func mcCandidate() model.Candidate {
	return model.Candidate{
		QuestionType:    model.TypeMultipleChoice,
		Stem:            "1+1=?",
		Options:         []model.Option{{Label: "A", Content: "1"}, {Label: "B", Content: "2"}},
		ReferenceAnswer: "B",
		Analysis:        []string{"trivial"},
	}
}

func TestValidateAcceptsValidCandidate(t *testing.T) {
	q, err := Validate(mcCandidate())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if q.QuestionType != model.TypeMultipleChoice {
		t.Errorf("QuestionType = %q", q.QuestionType)
	}
	if q.Stem != "1+1=?" || q.ReferenceAnswer != "B" {
		t.Errorf("unexpected stem/answer: %q / %q", q.Stem, q.ReferenceAnswer)
	}
	if len(q.Options) != 2 {
		t.Errorf("len(Options) = %d", len(q.Options))
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	c := mcCandidate()
	c.Stem = "  什么是指针？  "
	c.ReferenceAnswer = " B "
	c.KnowledgeTags = []string{" pointer ", "Pointer", "c"}

	q1, err := Validate(c)
	if err != nil {
		t.Fatalf("first Validate() error = %v", err)
	}

	// 用第一轮结果重建候选再校验一次，字段应完全不变
	c2 := model.Candidate{
		Number:          q1.Number,
		QuestionType:    q1.QuestionType,
		Stem:            q1.Stem,
		Options:         []model.Option(q1.Options),
		ReferenceAnswer: q1.ReferenceAnswer,
		Analysis:        []string(q1.Analysis),
		KnowledgeTags:   []string(q1.KnowledgeTags),
		Difficulty:      q1.Difficulty,
	}
	q2, err := Validate(c2)
	if err != nil {
		t.Fatalf("second Validate() error = %v", err)
	}
	if !reflect.DeepEqual(q1, q2) {
		t.Errorf("Validate is not idempotent:\nfirst  = %+v\nsecond = %+v", q1, q2)
	}
	if got := []string(q1.KnowledgeTags); !reflect.DeepEqual(got, []string{"pointer", "c"}) {
		t.Errorf("KnowledgeTags = %v, want [pointer c]", got)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Candidate)
		code   Code
	}{
		{
			name:   "unknown type",
			mutate: func(c *model.Candidate) { c.QuestionType = "true_or_false" },
			code:   InvalidType,
		},
		{
			name:   "blank stem",
			mutate: func(c *model.Candidate) { c.Stem = "   " },
			code:   EmptyStem,
		},
		{
			name:   "blank answer",
			mutate: func(c *model.Candidate) { c.ReferenceAnswer = "" },
			code:   EmptyAnswer,
		},
		{
			name:   "single option",
			mutate: func(c *model.Candidate) { c.Options = c.Options[:1] },
			code:   InvalidOptions,
		},
		{
			name:   "option with empty content",
			mutate: func(c *model.Candidate) { c.Options[1].Content = " " },
			code:   InvalidOptions,
		},
		{
			name:   "answer not a label",
			mutate: func(c *model.Candidate) { c.ReferenceAnswer = "D" },
			code:   AnswerNotInOptions,
		},
		{
			name:   "difficulty too high",
			mutate: func(c *model.Candidate) { c.Difficulty = 6 },
			code:   DifficultyOutOfRange,
		},
		{
			name:   "difficulty negative",
			mutate: func(c *model.Candidate) { c.Difficulty = -1 },
			code:   DifficultyOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mcCandidate()
			tt.mutate(&c)
			_, err := Validate(c)
			if err == nil {
				t.Fatal("Validate() accepted an invalid candidate")
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *validation.Error", err)
			}
			if verr.Code != tt.code {
				t.Errorf("Code = %q, want %q", verr.Code, tt.code)
			}
		})
	}
}

func TestValidateNonChoiceDropsOptions(t *testing.T) {
	c := model.Candidate{
		QuestionType:    model.TypeFillInTheBlank,
		Stem:            "C 语言中声明指针使用 ____ 符号",
		ReferenceAnswer: "*",
		Analysis:        []string{"", " 指针声明使用星号 "},
	}
	q, err := Validate(c)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(q.Options) != 0 {
		t.Errorf("len(Options) = %d, want 0", len(q.Options))
	}
	if got := []string(q.Analysis); !reflect.DeepEqual(got, []string{"指针声明使用星号"}) {
		t.Errorf("Analysis = %v", got)
	}
}
