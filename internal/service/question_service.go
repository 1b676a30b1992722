package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shuati_backend/internal/markdown"
	"shuati_backend/internal/model"
	"shuati_backend/internal/repository"
	"shuati_backend/internal/util"
	"shuati_backend/internal/validation"
	"shuati_backend/pkg/logger"
	"shuati_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImportResult 批量导入的结构化回执
type ImportResult struct {
	Success       bool     `json:"success"`
	ImportedCount int      `json:"importedCount"`
	Errors        []string `json:"errors"`
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	SetRepo      *repository.QuestionSetRepository
	Redis        *redis.Client
}

func NewQuestionService(questionRepo *repository.QuestionRepository, setRepo *repository.QuestionSetRepository, rdb *redis.Client) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		SetRepo:      setRepo,
		Redis:        rdb,
	}
}

// ImportBatch 逐条校验候选题目，合法子集在单个事务内落库。
// 校验失败只记入 Errors 不影响批次成功；存储事务失败时整批回滚，
// Success 为 false 且 ImportedCount 为 0。
func (s *QuestionService) ImportBatch(ctx context.Context, setID uint, candidates []model.Candidate) *ImportResult {
	result := &ImportResult{Success: true, Errors: []string{}}
	if len(candidates) == 0 {
		return result
	}

	var valid []model.Question
	for i, cand := range candidates {
		ordinal := cand.Number
		if ordinal <= 0 {
			ordinal = i + 1
		}
		q, err := validation.Validate(cand)
		if err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				monitoring.ImportRejected.WithLabelValues(string(verr.Code)).Inc()
			}
			result.Errors = append(result.Errors, fmt.Sprintf("第%d题: %s", ordinal, err.Error()))
			continue
		}
		q.Number = ordinal
		valid = append(valid, q)
	}

	if len(valid) > 0 {
		if _, err := s.QuestionRepo.InsertBatch(setID, valid); err != nil {
			logger.Log.Error("Batch import transaction failed", zap.Uint("setID", setID), zap.Error(err))
			return &ImportResult{
				Success: false,
				Errors:  []string{fmt.Sprintf("存储失败: %v", err)},
			}
		}
		result.ImportedCount = len(valid)
		monitoring.QuestionsImported.Add(float64(len(valid)))
		s.invalidateSetCache(ctx, setID)
	}
	return result
}

// ImportDocument 解析 Markdown 文档并导入其中的题目候选。
// 未指定题集时按文档标题新建题集。
func (s *QuestionService) ImportDocument(ctx context.Context, setID uint, sourcePath, document string) (*ImportResult, uint, error) {
	doc := markdown.Extract(document)
	if len(doc.Candidates) == 0 && doc.Title == "" {
		return nil, 0, util.ErrEmptyDocument
	}

	if setID == 0 {
		title := doc.Title
		if title == "" {
			title = "未命名题集"
		}
		set := &model.QuestionSet{Title: title, SourcePath: sourcePath}
		if err := s.SetRepo.Create(set); err != nil {
			return nil, 0, err
		}
		setID = set.ID
	} else if _, err := s.SetRepo.FindByID(setID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrQuestionSetNotFound
		}
		return nil, 0, err
	}

	return s.ImportBatch(ctx, setID, doc.Candidates), setID, nil
}

func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

// GetQuestionsBySet 题集题目列表，带 redis 旁路缓存；题集不存在时报错而非返回空列表
func (s *QuestionService) GetQuestionsBySet(ctx context.Context, setID uint) ([]model.Question, error) {
	if _, err := s.SetRepo.FindByID(setID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionSetNotFound
		}
		return nil, err
	}

	cacheKey := setCacheKey(setID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var questions []model.Question
			if json.Unmarshal([]byte(cached), &questions) == nil {
				return questions, nil
			}
		}
	}

	questions, err := s.QuestionRepo.FindBySet(setID)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if data, err := json.Marshal(questions); err == nil {
			s.Redis.Set(ctx, cacheKey, data, 10*time.Minute)
		}
	}
	return questions, nil
}

func (s *QuestionService) Search(keyword, questionType string, difficulty int, tag string) ([]model.Question, error) {
	return s.QuestionRepo.Search(keyword, questionType, difficulty, tag)
}

func (s *QuestionService) CreateSet(title, description string) (*model.QuestionSet, error) {
	set := &model.QuestionSet{Title: title, Description: description}
	if err := s.SetRepo.Create(set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *QuestionService) ListSets() ([]model.QuestionSet, error) {
	return s.SetRepo.FindAll()
}

func (s *QuestionService) GetSet(id uint) (*model.QuestionSet, error) {
	set, err := s.SetRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionSetNotFound
	}
	return set, err
}

func (s *QuestionService) DeleteSet(id uint) error {
	if _, err := s.SetRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionSetNotFound
		}
		return err
	}
	return s.SetRepo.Delete(id)
}

func (s *QuestionService) invalidateSetCache(ctx context.Context, setID uint) {
	if s.Redis == nil || setID == 0 {
		return
	}
	if err := s.Redis.Del(ctx, setCacheKey(setID)).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate set cache", zap.Uint("setID", setID), zap.Error(err))
	}
}

func setCacheKey(setID uint) string {
	return fmt.Sprintf("shuati:set:%d:questions", setID)
}
