package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"shuati_backend/internal/config"
	"shuati_backend/internal/model"
	"shuati_backend/internal/util"
	"shuati_backend/pkg/logger"

	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

func TestGenerateWithoutCredentialsUsesFallback(t *testing.T) {
	svc := NewGenerationService(NewAIService(config.AIConfig{}))

	result, err := svc.Generate(context.Background(), "本章讲解指针与数组的关系", 2)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.FallbackUsed {
		t.Error("FallbackUsed = false, want true")
	}
	if result.FallbackReason == "" {
		t.Error("FallbackReason is empty")
	}
	if len(result.Candidates) == 0 {
		t.Fatal("fallback returned no candidates")
	}
	// 关键词“指针”应命中目录中的选择题模板
	if result.Candidates[0].QuestionType != model.TypeMultipleChoice {
		t.Errorf("first candidate type = %q", result.Candidates[0].QuestionType)
	}
}

func TestGenerateFallbackIsDeterministic(t *testing.T) {
	svc := NewGenerationService(nil)

	first, err := svc.Generate(context.Background(), "循环与递归", 3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := svc.Generate(context.Background(), "循环与递归", 3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !reflect.DeepEqual(first.Candidates, second.Candidates) {
		t.Error("fallback output differs between identical invocations")
	}
}

func TestGenerateEmptyInputFails(t *testing.T) {
	svc := NewGenerationService(nil)
	if _, err := svc.Generate(context.Background(), "   ", 2); err != util.ErrEmptySourceText {
		t.Errorf("Generate() error = %v, want ErrEmptySourceText", err)
	}
}

func TestGenerateRemoteSuccess(t *testing.T) {
	batch := questionBatch{Questions: []model.Candidate{
		{
			Number:          1,
			QuestionType:    model.TypeFillInTheBlank,
			Stem:            "  C 语言中声明常量使用 ____ 关键字  ",
			ReferenceAnswer: " const ",
			Analysis:        []string{" const 修饰只读变量 ", ""},
		},
		{
			// 题干过短，应被校验阶段静默丢弃
			Number:          2,
			QuestionType:    model.TypeEssay,
			Stem:            "太短",
			ReferenceAnswer: "无",
		},
	}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		content, _ := json.Marshal(batch)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": string(content)}},
			},
		})
	}))
	defer server.Close()

	svc := NewGenerationService(NewAIService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}))

	result, err := svc.Generate(context.Background(), "C 语言常量", 2)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.FallbackUsed {
		t.Errorf("FallbackUsed = true, reason = %q", result.FallbackReason)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("len(Candidates) = %d, want 1 (short stem dropped)", len(result.Candidates))
	}
	c := result.Candidates[0]
	if c.Stem != "C 语言中声明常量使用 ____ 关键字" {
		t.Errorf("Stem not trimmed: %q", c.Stem)
	}
	if c.ReferenceAnswer != "const" {
		t.Errorf("ReferenceAnswer not trimmed: %q", c.ReferenceAnswer)
	}
	if !reflect.DeepEqual(c.Analysis, []string{"const 修饰只读变量"}) {
		t.Errorf("Analysis = %v", c.Analysis)
	}
}

func TestUpdateConfigConcurrentWithGenerate(t *testing.T) {
	batch := questionBatch{Questions: []model.Candidate{{
		Number:          1,
		QuestionType:    model.TypeEssay,
		Stem:            "请简述指针与数组的区别。",
		ReferenceAnswer: "数组是连续存储，指针是地址变量。",
	}}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, _ := json.Marshal(batch)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": string(content)}},
			},
		})
	}))
	defer server.Close()

	svc := NewGenerationService(NewAIService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "key-0",
		Model:   "m",
	}))

	// 配置热更新与在途生成请求并发，-race 下不得产生数据竞争
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			svc.AI.UpdateConfig(config.AIConfig{
				BaseURL: server.URL,
				APIKey:  fmt.Sprintf("key-%d", i),
				Model:   "m",
			})
		}(i)
		go func() {
			defer wg.Done()
			result, err := svc.Generate(context.Background(), "指针与数组", 1)
			if err != nil {
				t.Errorf("Generate() error = %v", err)
				return
			}
			if len(result.Candidates) == 0 {
				t.Error("Generate() returned no candidates")
			}
		}()
	}
	wg.Wait()
}

func TestGenerateRemoteErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewGenerationService(NewAIService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}))

	result, err := svc.Generate(context.Background(), "排序算法综述", 1)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.FallbackUsed {
		t.Error("FallbackUsed = false after remote error")
	}
	if len(result.Candidates) == 0 {
		t.Error("fallback returned no candidates")
	}
}

func TestGenerateRemoteMalformedJSONFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "这不是JSON"}},
			},
		})
	}))
	defer server.Close()

	svc := NewGenerationService(NewAIService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}))

	result, err := svc.Generate(context.Background(), "数组基础", 1)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.FallbackUsed {
		t.Error("FallbackUsed = false after malformed payload")
	}
}
