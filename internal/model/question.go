package model

import (
	"gorm.io/datatypes"
)

// 题型闭集。所有消费方必须对三种题型做穷尽分支。
const (
	TypeMultipleChoice = "multiple_choice"
	TypeFillInTheBlank = "fill_in_the_blank"
	TypeEssay          = "essay"
)

// KnownQuestionType 判断题型是否属于闭集
func KnownQuestionType(t string) bool {
	switch t {
	case TypeMultipleChoice, TypeFillInTheBlank, TypeEssay:
		return true
	}
	return false
}

// Option 选择题选项，label 与选项内容成对出现
type Option struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// Question 入库后的标准题目记录。options/解析/媒体/标签均为
// 类型化 JSON 列，读写不经过任何字符串拼接或二次解析。
// 入库后不可变；id 与 createdAt 只由存储层写入。
// swagger:model Question
type Question struct {
	BaseModel

	SetID           uint                           `gorm:"index" json:"setId"`
	Number          int                            `gorm:"default:0" json:"number"`
	QuestionType    string                         `gorm:"size:50;not null" json:"questionType"`
	Stem            string                         `gorm:"type:text;not null" json:"stem"`
	Options         datatypes.JSONSlice[Option]    `json:"options"`
	ReferenceAnswer string                         `gorm:"type:text;not null" json:"referenceAnswer"`
	Analysis        datatypes.JSONSlice[string]    `json:"detailedAnalysis"`
	MediaRefs       datatypes.JSONSlice[string]    `json:"mediaRefs"`
	KnowledgeTags   datatypes.JSONSlice[string]    `json:"knowledgeTags"`
	Difficulty      int                            `gorm:"default:0" json:"difficulty"` // 1-5，0 表示未设置
}

func (Question) TableName() string {
	return "questions"
}

// HasTag 精确（大小写敏感）匹配知识点标签
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.KnowledgeTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Candidate 未校验的候选题目，来自 Markdown 提取或 AI 生成。
// 字段允许缺失或畸形，是否可入库由校验层判定。
// JSON 命名与远程生成接口的 schema 保持一致。
type Candidate struct {
	Number          int      `json:"number"`
	QuestionType    string   `json:"question_type"`
	Stem            string   `json:"stem"`
	Options         []Option `json:"options,omitempty"`
	ReferenceAnswer string   `json:"reference_answer"`
	Analysis        []string `json:"detailed_analysis,omitempty"`
	MediaRefs       []string `json:"media_refs,omitempty"`
	KnowledgeTags   []string `json:"knowledge_tags,omitempty"`
	Difficulty      int      `json:"difficulty,omitempty"`
}
