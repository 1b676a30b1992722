package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"shuati_backend/internal/config"
	"shuati_backend/internal/model"
)

// AIService 对接远程出题模型，请求体为 OpenAI 兼容的 chat completions 格式。
// 配置可被热更新协程替换，读写都经过锁，单次请求只取一次快照。
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *AIService) snapshot() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// HasCredentials 判断是否配置了远程模型凭证
func (s *AIService) HasCredentials() bool {
	cfg := s.snapshot()
	return cfg.APIKey != "" && cfg.BaseURL != ""
}

// UpdateConfig 配置热更新时替换远程模型凭证
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// questionBatch 约束模型输出的 JSON 形状
type questionBatch struct {
	Questions []model.Candidate `json:"questions"`
}

const generatePrompt = `你是一个出题助手。请根据给定的学习材料出题，输出严格符合以下 JSON 结构，不要输出任何额外文字：
{"questions":[{"number":1,"question_type":"multiple_choice|fill_in_the_blank|essay","stem":"题干","options":[{"label":"A","content":"选项内容"}],"reference_answer":"答案","detailed_analysis":["解析步骤"],"knowledge_tags":["知识点"],"difficulty":3}]}
规则：
1. question_type 只能取 multiple_choice、fill_in_the_blank、essay 三种。
2. 选择题 options 至少两项，reference_answer 必须等于某个选项的 label。
3. 非选择题不要输出 options。
4. difficulty 取 1 到 5 的整数。`

// GenerateQuestions 请求远程模型生成题目候选，任何网络或解码错误都原样返回，
// 是否回退由调用方决定
func (s *AIService) GenerateQuestions(ctx context.Context, sourceText string, count int) ([]model.Candidate, error) {
	cfg := s.snapshot()
	userPrompt := fmt.Sprintf("请根据以下材料出 %d 道题：\n\n%s", count, sourceText)

	reqBody := map[string]interface{}{
		"model": cfg.Model,
		"messages": []AIChatMessage{
			{Role: "system", Content: generatePrompt},
			{Role: "user", Content: userPrompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("解码模型响应失败: %v", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("模型响应不含任何choice")
	}

	var batch questionBatch
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &batch); err != nil {
		return nil, fmt.Errorf("模型输出不是合法的题目JSON: %v", err)
	}
	if len(batch.Questions) == 0 {
		return nil, fmt.Errorf("模型输出不含任何题目")
	}
	return batch.Questions, nil
}
