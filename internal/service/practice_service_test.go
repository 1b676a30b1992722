package service

import (
	"context"
	"testing"

	"shuati_backend/internal/model"
	"shuati_backend/internal/repository"
	"shuati_backend/internal/util"

	"gorm.io/gorm"
)

func newPracticeFixture(t *testing.T) (*PracticeService, *QuestionService, *gorm.DB) {
	db := newTestDB(t)
	questionRepo := repository.NewQuestionRepository(db)
	setRepo := repository.NewQuestionSetRepository(db)
	qsvc := NewQuestionService(questionRepo, setRepo, nil)
	psvc := NewPracticeService(questionRepo, repository.NewAttemptRepository(db), setRepo)
	return psvc, qsvc, db
}

// 导入一道选择题、一道填空题、一道论述题，返回各自的 id
func seedQuestions(t *testing.T, qsvc *QuestionService, db *gorm.DB) (mc, fill, essay uint, setID uint) {
	t.Helper()
	set, err := qsvc.CreateSet("练习", "")
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	candidates := append(validCandidates(), model.Candidate{
		Number:          3,
		QuestionType:    model.TypeEssay,
		Stem:            "请论述指针与数组在参数传递时的关系。",
		ReferenceAnswer: "数组名作为参数时退化为指针。",
		Analysis:        []string{"数组实参退化"},
		KnowledgeTags:   []string{"指针"},
	})
	result := qsvc.ImportBatch(context.Background(), set.ID, candidates)
	if result.ImportedCount != 3 {
		t.Fatalf("seed import failed: %v", result.Errors)
	}
	var questions []model.Question
	if err := db.Order("number").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	return questions[0].ID, questions[1].ID, questions[2].ID, set.ID
}

func TestRecordAttemptCorrectness(t *testing.T) {
	psvc, qsvc, db := newPracticeFixture(t)
	mc, fill, essay, _ := seedQuestions(t, qsvc, db)

	tests := []struct {
		name       string
		questionID uint
		answer     string
		want       bool
	}{
		{"choice exact label", mc, "B", true},
		{"choice wrong label", mc, "A", false},
		{"choice label is case sensitive", mc, "b", false},
		{"fill exact", fill, "malloc", true},
		{"fill case and whitespace insensitive", fill, "  MALLOC ", true},
		{"fill wrong", fill, "calloc", false},
		{"essay always incorrect", essay, "数组名作为参数时退化为指针。", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt, err := psvc.RecordAttempt(tt.questionID, tt.answer, 30)
			if err != nil {
				t.Fatalf("RecordAttempt: %v", err)
			}
			if attempt.IsCorrect != tt.want {
				t.Errorf("IsCorrect = %v, want %v", attempt.IsCorrect, tt.want)
			}
			if attempt.ConfidenceScore != nil {
				t.Error("ConfidenceScore should be unset")
			}
			if attempt.ID == 0 {
				t.Error("attempt was not persisted")
			}
		})
	}
}

func TestRecordAttemptRejectsBadInput(t *testing.T) {
	psvc, qsvc, db := newPracticeFixture(t)
	mc, _, _, _ := seedQuestions(t, qsvc, db)

	if _, err := psvc.RecordAttempt(99999, "B", 10); err != util.ErrQuestionNotFound {
		t.Errorf("unknown question error = %v, want ErrQuestionNotFound", err)
	}
	if _, err := psvc.RecordAttempt(mc, "B", -1); err != util.ErrNegativeTimeSpent {
		t.Errorf("negative time error = %v, want ErrNegativeTimeSpent", err)
	}

	var count int64
	db.Model(&model.QuestionAttempt{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected attempts were persisted: count = %d", count)
	}
}

func TestGetMistakesByTag(t *testing.T) {
	psvc, qsvc, db := newPracticeFixture(t)
	mc, fill, essay, _ := seedQuestions(t, qsvc, db)

	// 选择题错两次对一次，填空题全对，论述题答一次（恒错）
	for _, answer := range []string{"A", "A", "B"} {
		if _, err := psvc.RecordAttempt(mc, answer, 10); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}
	if _, err := psvc.RecordAttempt(fill, "malloc", 10); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if _, err := psvc.RecordAttempt(essay, "随便写写", 10); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	all, err := psvc.GetMistakesByTag("")
	if err != nil {
		t.Fatalf("GetMistakesByTag: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2 (fill has no mistakes)", len(all))
	}

	counts := map[uint]int64{}
	for _, e := range all {
		counts[e.Question.ID] = e.MistakeCount
	}
	if counts[mc] != 2 {
		t.Errorf("choice mistakes = %d, want 2", counts[mc])
	}
	if counts[essay] != 1 {
		t.Errorf("essay mistakes = %d, want 1", counts[essay])
	}

	tagged, err := psvc.GetMistakesByTag("指针")
	if err != nil {
		t.Fatalf("GetMistakesByTag: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Question.ID != essay {
		t.Errorf("tagged = %+v", tagged)
	}

	// 标签精确匹配，大小写不同不命中
	if none, _ := psvc.GetMistakesByTag("算术X"); len(none) != 0 {
		t.Errorf("unexpected matches for unknown tag: %d", len(none))
	}
}

func TestRecordSkipExcludedFromMistakes(t *testing.T) {
	psvc, qsvc, db := newPracticeFixture(t)
	mc, fill, _, _ := seedQuestions(t, qsvc, db)

	if _, err := psvc.RecordAttempt(mc, "A", 10); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	skip, err := psvc.RecordSkip(fill, 3)
	if err != nil {
		t.Fatalf("RecordSkip: %v", err)
	}
	if !skip.Skipped || skip.IsCorrect {
		t.Errorf("skip attempt = %+v", skip)
	}

	// 跳过的题目不得出现在错题本中
	mistakes, err := psvc.GetMistakesByTag("")
	if err != nil {
		t.Fatalf("GetMistakesByTag: %v", err)
	}
	if len(mistakes) != 1 || mistakes[0].Question.ID != mc {
		t.Errorf("mistakes = %+v, want only the wrongly answered choice question", mistakes)
	}

	if _, err := psvc.RecordSkip(99999, 1); err != util.ErrQuestionNotFound {
		t.Errorf("unknown question skip error = %v", err)
	}
	if _, err := psvc.RecordSkip(mc, -1); err != util.ErrNegativeTimeSpent {
		t.Errorf("negative time skip error = %v", err)
	}
}

func TestGetSetProgress(t *testing.T) {
	psvc, qsvc, db := newPracticeFixture(t)
	mc, fill, essay, setID := seedQuestions(t, qsvc, db)

	if _, err := psvc.RecordAttempt(mc, "B", 5); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if _, err := psvc.RecordAttempt(mc, "A", 5); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if _, err := psvc.RecordAttempt(fill, "calloc", 5); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if _, err := psvc.RecordSkip(essay, 2); err != nil {
		t.Fatalf("RecordSkip: %v", err)
	}

	progress, err := psvc.GetSetProgress(setID)
	if err != nil {
		t.Fatalf("GetSetProgress: %v", err)
	}
	if progress.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d", progress.TotalQuestions)
	}
	if progress.Answered != 2 {
		t.Errorf("Answered = %d, want 2 (skips are not answers)", progress.Answered)
	}
	if progress.Correct != 1 {
		t.Errorf("Correct = %d, want 1", progress.Correct)
	}
	if progress.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", progress.Skipped)
	}

	if _, err := psvc.GetSetProgress(99999); err != util.ErrQuestionSetNotFound {
		t.Errorf("unknown set error = %v", err)
	}
}
