package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"shuati_backend/internal/model"
	"shuati_backend/pkg/logger"
	"shuati_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// GenerationResult 一次生成管线调用的结果
type GenerationResult struct {
	Candidates     []model.Candidate `json:"candidates"`
	FallbackUsed   bool              `json:"fallback_used"`
	FallbackReason string            `json:"fallback_reason,omitempty"`
}

// GenerationService 三段式生成管线：远程生成（或离线回退）→ 结构校验 → 归一化
type GenerationService struct {
	AI *AIService
}

func NewGenerationService(ai *AIService) *GenerationService {
	return &GenerationService{AI: ai}
}

// Generate 生成题目候选。远程阶段的任何错误都不向调用方传播，
// 一律落回离线生成器；只有离线生成器也失败（如空输入）才返回错误。
func (s *GenerationService) Generate(ctx context.Context, sourceText string, count int) (*GenerationResult, error) {
	result := &GenerationResult{}

	var candidates []model.Candidate
	switch {
	case s.AI == nil || !s.AI.HasCredentials():
		result.FallbackUsed = true
		result.FallbackReason = "no credentials configured"
		monitoring.GenerationFallback.WithLabelValues("no_credentials").Inc()
	default:
		remote, err := s.AI.GenerateQuestions(ctx, sourceText, count)
		if err != nil {
			logger.Log.Warn("Remote generation failed, falling back to offline generator", zap.Error(err))
			result.FallbackUsed = true
			result.FallbackReason = err.Error()
			monitoring.GenerationFallback.WithLabelValues("remote_error").Inc()
		} else {
			candidates = remote
		}
	}

	if result.FallbackUsed {
		offline, err := OfflineGenerate(sourceText, count)
		if err != nil {
			return nil, err
		}
		candidates = offline
	}

	result.Candidates = s.format(s.verify(candidates))
	return result, nil
}

// verify 只做廉价的结构检查，不合格的候选静默丢弃
func (s *GenerationService) verify(candidates []model.Candidate) []model.Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if reason := verifyCandidate(c); reason != "" {
			monitoring.GenerationDropped.Inc()
			logger.Log.Debug("Dropping generated candidate",
				zap.Int("number", c.Number),
				zap.String("reason", reason),
			)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func verifyCandidate(c model.Candidate) string {
	if utf8.RuneCountInString(strings.TrimSpace(c.Stem)) < 10 {
		return "stem too short"
	}
	if strings.TrimSpace(c.ReferenceAnswer) == "" {
		return "empty reference answer"
	}
	if c.QuestionType == model.TypeMultipleChoice && len(c.Options) < 2 {
		return "too few options"
	}
	return ""
}

// format 归一化幸存候选，产出与校验层期望一致的形状
func (s *GenerationService) format(candidates []model.Candidate) []model.Candidate {
	for i := range candidates {
		c := &candidates[i]
		c.Stem = strings.TrimSpace(c.Stem)
		c.ReferenceAnswer = strings.TrimSpace(c.ReferenceAnswer)
		for j := range c.Options {
			c.Options[j].Label = strings.TrimSpace(c.Options[j].Label)
			c.Options[j].Content = strings.TrimSpace(c.Options[j].Content)
		}
		steps := c.Analysis[:0]
		for _, step := range c.Analysis {
			if step = strings.TrimSpace(step); step != "" {
				steps = append(steps, step)
			}
		}
		c.Analysis = steps
	}
	return candidates
}
