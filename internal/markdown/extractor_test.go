package markdown

import (
	"reflect"
	"testing"

	"shuati_backend/internal/model"
)

const sampleDoc = `# C 语言基础练习

## 1. 下列哪个符号用于声明指针？

A. &
B. *
C. #
D. @

答案：B
解析：星号用于声明指针变量
难度：2
标签：指针, C语言

## 2. 填空题

C 语言中动态分配内存使用 ____ 函数。

答案：malloc

## 3. 论述题

请论述递归与迭代的区别及各自适用场景。
`

func TestExtractSampleDocument(t *testing.T) {
	doc := Extract(sampleDoc)

	if doc.Title != "C 语言基础练习" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Candidates) != 3 {
		t.Fatalf("len(Candidates) = %d, want 3", len(doc.Candidates))
	}

	mc := doc.Candidates[0]
	if mc.Number != 1 {
		t.Errorf("Number = %d, want 1", mc.Number)
	}
	if mc.QuestionType != model.TypeMultipleChoice {
		t.Errorf("QuestionType = %q", mc.QuestionType)
	}
	if len(mc.Options) != 4 || mc.Options[1].Label != "B" || mc.Options[1].Content != "*" {
		t.Errorf("Options = %+v", mc.Options)
	}
	if mc.ReferenceAnswer != "B" {
		t.Errorf("ReferenceAnswer = %q", mc.ReferenceAnswer)
	}
	if !reflect.DeepEqual(mc.Analysis, []string{"星号用于声明指针变量"}) {
		t.Errorf("Analysis = %v", mc.Analysis)
	}
	if mc.Difficulty != 2 {
		t.Errorf("Difficulty = %d", mc.Difficulty)
	}
	if !reflect.DeepEqual(mc.KnowledgeTags, []string{"指针", "C语言"}) {
		t.Errorf("KnowledgeTags = %v", mc.KnowledgeTags)
	}

	fill := doc.Candidates[1]
	if fill.QuestionType != model.TypeFillInTheBlank {
		t.Errorf("candidate 2 QuestionType = %q", fill.QuestionType)
	}
	if fill.ReferenceAnswer != "malloc" {
		t.Errorf("candidate 2 ReferenceAnswer = %q", fill.ReferenceAnswer)
	}

	essay := doc.Candidates[2]
	if essay.QuestionType != model.TypeEssay {
		t.Errorf("candidate 3 QuestionType = %q", essay.QuestionType)
	}
	if essay.Number != 3 {
		t.Errorf("candidate 3 Number = %d", essay.Number)
	}
}

func TestExtractIsPermissive(t *testing.T) {
	doc := Extract("## 半截题目\n\n只有题干没有答案")
	if len(doc.Candidates) != 1 {
		t.Fatalf("len(Candidates) = %d, want 1", len(doc.Candidates))
	}
	c := doc.Candidates[0]
	if c.ReferenceAnswer != "" {
		t.Errorf("ReferenceAnswer = %q, want empty", c.ReferenceAnswer)
	}
	if c.Stem == "" {
		t.Error("Stem should not be empty")
	}
}

func TestExtractEmptyAndPlainDocuments(t *testing.T) {
	if doc := Extract(""); len(doc.Candidates) != 0 {
		t.Errorf("empty document yielded %d candidates", len(doc.Candidates))
	}
	// 没有任何标题的文档不含题目边界
	if doc := Extract("这是一段普通的文字，没有任何标题。"); len(doc.Candidates) != 0 {
		t.Errorf("plain document yielded %d candidates", len(doc.Candidates))
	}
}

func TestExtractIsRestartable(t *testing.T) {
	first := Extract(sampleDoc)
	second := Extract(sampleDoc)
	if !reflect.DeepEqual(first, second) {
		t.Error("Extract is not deterministic across calls")
	}
}
