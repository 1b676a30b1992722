package util

import "errors"

var (
	ErrQuestionNotFound    = errors.New("题目不存在")
	ErrQuestionSetNotFound = errors.New("题集不存在")
	ErrEmptySourceText     = errors.New("源文本为空")
	ErrNegativeTimeSpent   = errors.New("答题用时不能为负数")
	ErrEmptyDocument       = errors.New("文档内容为空")
)
