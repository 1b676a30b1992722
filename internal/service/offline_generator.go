package service

import (
	"fmt"
	"strings"

	"shuati_backend/internal/model"
	"shuati_backend/internal/util"
)

// offlineTemplate 离线出题模板，按关键词命中源文本
type offlineTemplate struct {
	keyword   string
	candidate model.Candidate
}

// 无凭证或远程失败时使用的固定题目目录，保证开发与测试环境不依赖网络
var offlineCatalog = []offlineTemplate{
	{
		keyword: "指针",
		candidate: model.Candidate{
			QuestionType: model.TypeMultipleChoice,
			Stem:         "C 语言中，下列哪个运算符用于取变量的地址？",
			Options: []model.Option{
				{Label: "A", Content: "*"},
				{Label: "B", Content: "&"},
				{Label: "C", Content: "->"},
				{Label: "D", Content: "."},
			},
			ReferenceAnswer: "B",
			Analysis:        []string{"& 是取地址运算符", "* 用于声明指针和解引用"},
			KnowledgeTags:   []string{"指针"},
			Difficulty:      2,
		},
	},
	{
		keyword: "循环",
		candidate: model.Candidate{
			QuestionType:    model.TypeFillInTheBlank,
			Stem:            "C 语言中，至少执行一次循环体的循环语句是 ____ 循环。",
			ReferenceAnswer: "do-while",
			Analysis:        []string{"do-while 先执行循环体再判断条件"},
			KnowledgeTags:   []string{"循环"},
			Difficulty:      1,
		},
	},
	{
		keyword: "数组",
		candidate: model.Candidate{
			QuestionType: model.TypeMultipleChoice,
			Stem:         "定义 int a[10]; 后，数组下标的合法范围是？",
			Options: []model.Option{
				{Label: "A", Content: "1 到 10"},
				{Label: "B", Content: "0 到 10"},
				{Label: "C", Content: "0 到 9"},
				{Label: "D", Content: "1 到 9"},
			},
			ReferenceAnswer: "C",
			Analysis:        []string{"C 语言数组下标从 0 开始", "长度为 10 的数组最大下标是 9"},
			KnowledgeTags:   []string{"数组"},
			Difficulty:      1,
		},
	},
	{
		keyword: "递归",
		candidate: model.Candidate{
			QuestionType:    model.TypeEssay,
			Stem:            "请论述递归函数的两个必要组成部分，并说明缺少终止条件会导致什么后果。",
			ReferenceAnswer: "递归函数必须包含终止条件和递归调用；缺少终止条件会导致栈溢出。",
			Analysis:        []string{"终止条件保证递归收敛", "每次调用占用栈帧，无限递归耗尽栈空间"},
			KnowledgeTags:   []string{"递归"},
			Difficulty:      3,
		},
	},
	{
		keyword: "排序",
		candidate: model.Candidate{
			QuestionType: model.TypeMultipleChoice,
			Stem:         "下列排序算法中，平均时间复杂度为 O(n log n) 的是？",
			Options: []model.Option{
				{Label: "A", Content: "冒泡排序"},
				{Label: "B", Content: "快速排序"},
				{Label: "C", Content: "插入排序"},
				{Label: "D", Content: "选择排序"},
			},
			ReferenceAnswer: "B",
			Analysis:        []string{"快速排序平均复杂度为 O(n log n)", "其余三种均为 O(n^2)"},
			KnowledgeTags:   []string{"排序", "算法复杂度"},
			Difficulty:      2,
		},
	},
}

// OfflineGenerate 确定性离线生成：按关键词命中模板，不足时用源文本首行
// 合成论述题补齐。相同输入总是产生相同输出。
func OfflineGenerate(sourceText string, count int) ([]model.Candidate, error) {
	sourceText = strings.TrimSpace(sourceText)
	if sourceText == "" {
		return nil, util.ErrEmptySourceText
	}
	if count <= 0 {
		count = 1
	}

	var candidates []model.Candidate
	for _, tpl := range offlineCatalog {
		if len(candidates) >= count {
			break
		}
		if strings.Contains(sourceText, tpl.keyword) {
			c := tpl.candidate
			c.Number = len(candidates) + 1
			candidates = append(candidates, c)
		}
	}

	topic := firstLine(sourceText)
	for len(candidates) < count {
		candidates = append(candidates, model.Candidate{
			Number:          len(candidates) + 1,
			QuestionType:    model.TypeEssay,
			Stem:            fmt.Sprintf("请结合所学内容，简要阐述以下材料涉及的核心概念：%s", topic),
			ReferenceAnswer: "要点包括材料中的核心概念定义、适用场景及注意事项。",
			Analysis:        []string{"开放性题目，按要点覆盖程度评分"},
			Difficulty:      3,
		})
	}
	return candidates, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	const max = 60
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return s
}
