package service

import (
	"errors"
	"sort"
	"strings"

	"shuati_backend/internal/model"
	"shuati_backend/internal/repository"
	"shuati_backend/internal/util"

	"gorm.io/gorm"
)

// MistakeEntry 错题及其累计错误次数
type MistakeEntry struct {
	Question     model.Question `json:"question"`
	MistakeCount int64          `json:"mistakeCount"`
}

// SetProgress 题集练习进度
type SetProgress struct {
	SetID          uint    `json:"setId"`
	TotalQuestions int     `json:"totalQuestions"`
	Answered       int64   `json:"answered"`
	Correct        int64   `json:"correct"`
	Skipped        int64   `json:"skipped"`
	CompletionRate float64 `json:"completionRate"`
}

type PracticeService struct {
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	SetRepo      *repository.QuestionSetRepository
}

func NewPracticeService(questionRepo *repository.QuestionRepository, attemptRepo *repository.AttemptRepository, setRepo *repository.QuestionSetRepository) *PracticeService {
	return &PracticeService{
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		SetRepo:      setRepo,
	}
}

// RecordAttempt 记录一次作答。正确性按题型在提交时判定一次，之后不再重算。
func (s *PracticeService) RecordAttempt(questionID uint, userAnswer string, timeSpentSeconds int) (*model.QuestionAttempt, error) {
	if timeSpentSeconds < 0 {
		return nil, util.ErrNegativeTimeSpent
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	attempt := &model.QuestionAttempt{
		QuestionID:       questionID,
		UserAnswer:       userAnswer,
		IsCorrect:        judge(question, userAnswer),
		TimeSpentSeconds: timeSpentSeconds,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// RecordSkip 记录一次跳过。跳过计入进度统计，但不进错题本。
func (s *PracticeService) RecordSkip(questionID uint, timeSpentSeconds int) (*model.QuestionAttempt, error) {
	if timeSpentSeconds < 0 {
		return nil, util.ErrNegativeTimeSpent
	}
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	attempt := &model.QuestionAttempt{
		QuestionID:       questionID,
		Skipped:          true,
		TimeSpentSeconds: timeSpentSeconds,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// judge 按题型判定正确性：选择题比对 label（大小写敏感）、
// 填空题两侧修剪后大小写不敏感比对、论述题一律记错待人工批改
func judge(q *model.Question, userAnswer string) bool {
	switch q.QuestionType {
	case model.TypeMultipleChoice:
		return userAnswer == q.ReferenceAnswer
	case model.TypeFillInTheBlank:
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(q.ReferenceAnswer))
	case model.TypeEssay:
		return false
	}
	return false
}

func (s *PracticeService) GetAttempts(questionID uint) ([]model.QuestionAttempt, error) {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return s.AttemptRepo.FindByQuestion(questionID)
}

// GetMistakesByTag 错题聚合：只保留错过至少一次的题目，tag 非空时
// 精确匹配知识点标签过滤，返回按题目 id 稳定排序
func (s *PracticeService) GetMistakesByTag(tag string) ([]MistakeEntry, error) {
	counts, err := s.AttemptRepo.IncorrectCounts()
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []MistakeEntry{}, nil
	}

	ids := make([]uint, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]MistakeEntry, 0, len(questions))
	for _, q := range questions {
		if tag != "" && !q.HasTag(tag) {
			continue
		}
		entries = append(entries, MistakeEntry{Question: q, MistakeCount: counts[q.ID]})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Question.ID < entries[j].Question.ID
	})
	return entries, nil
}

// GetSetProgress 题集进度统计
func (s *PracticeService) GetSetProgress(setID uint) (*SetProgress, error) {
	set, err := s.SetRepo.FindByID(setID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionSetNotFound
		}
		return nil, err
	}

	answered, correct, skipped, err := s.AttemptRepo.AnsweredStats(setID)
	if err != nil {
		return nil, err
	}

	progress := &SetProgress{
		SetID:          setID,
		TotalQuestions: set.TotalQuestions,
		Answered:       answered,
		Correct:        correct,
		Skipped:        skipped,
	}
	if set.TotalQuestions > 0 {
		progress.CompletionRate = float64(answered) / float64(set.TotalQuestions)
	}
	return progress, nil
}
