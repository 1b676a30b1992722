// Package validation 实现候选题目的标准化与校验。
// 校验是纯函数：不读库、不写库，同一输入永远得到同一结果。
// 提取层与生成层只负责“尽量凑出候选”，是否可入库以这里为准。
package validation

import (
	"fmt"
	"strings"

	"shuati_backend/internal/model"

	"gorm.io/datatypes"
)

// Code 校验失败类别，随批量导入的逐题错误一起返回给前端
type Code string

const (
	InvalidType          Code = "invalid_type"
	EmptyStem            Code = "empty_stem"
	EmptyAnswer          Code = "empty_answer"
	InvalidOptions       Code = "invalid_options"
	AnswerNotInOptions   Code = "answer_not_in_options"
	DifficultyOutOfRange Code = "difficulty_out_of_range"
)

// Error 单个候选的校验失败，Code 固定枚举，Message 面向人读
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate 校验单个候选，按固定顺序检查，首个失败即返回。
// 通过时返回一个可入库的 Question（未赋 id / 时间，由存储层写入），
// 文本字段做过修剪，标签做过大小写不敏感去重。
func Validate(cand model.Candidate) (model.Question, error) {
	var q model.Question

	if !model.KnownQuestionType(cand.QuestionType) {
		return q, newError(InvalidType, "未知题型 %q", cand.QuestionType)
	}

	stem := strings.TrimSpace(cand.Stem)
	if stem == "" {
		return q, newError(EmptyStem, "题干为空")
	}

	answer := strings.TrimSpace(cand.ReferenceAnswer)
	if answer == "" {
		return q, newError(EmptyAnswer, "参考答案为空")
	}

	var options []model.Option
	switch cand.QuestionType {
	case model.TypeMultipleChoice:
		if len(cand.Options) < 2 {
			return q, newError(InvalidOptions, "选择题至少需要 2 个选项，实际 %d 个", len(cand.Options))
		}
		options = make([]model.Option, 0, len(cand.Options))
		matched := false
		for _, opt := range cand.Options {
			label := strings.TrimSpace(opt.Label)
			content := strings.TrimSpace(opt.Content)
			if label == "" || content == "" {
				return q, newError(InvalidOptions, "选项 label 或内容为空")
			}
			if label == answer {
				matched = true
			}
			options = append(options, model.Option{Label: label, Content: content})
		}
		if !matched {
			return q, newError(AnswerNotInOptions, "参考答案 %q 不在选项 label 中", answer)
		}
	case model.TypeFillInTheBlank, model.TypeEssay:
		// 非选择题不携带选项
		options = nil
	}

	if cand.Difficulty != 0 && (cand.Difficulty < 1 || cand.Difficulty > 5) {
		return q, newError(DifficultyOutOfRange, "难度 %d 超出 [1,5]", cand.Difficulty)
	}

	analysis := trimNonEmpty(cand.Analysis)
	mediaRefs := trimNonEmpty(cand.MediaRefs)
	tags := dedupeTags(cand.KnowledgeTags)

	q = model.Question{
		Number:          cand.Number,
		QuestionType:    cand.QuestionType,
		Stem:            stem,
		Options:         datatypes.NewJSONSlice(options),
		ReferenceAnswer: answer,
		Analysis:        datatypes.NewJSONSlice(analysis),
		MediaRefs:       datatypes.NewJSONSlice(mediaRefs),
		KnowledgeTags:   datatypes.NewJSONSlice(tags),
		Difficulty:      cand.Difficulty,
	}
	return q, nil
}

// trimNonEmpty 修剪每一项并丢弃空串，保持原有顺序
func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dedupeTags 标签按大小写不敏感去重，保留首次出现的写法
func dedupeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
