package model

// QuestionAttempt 一次答题事件。is_correct 在提交时判定，之后不再重算。
// confidence_score 预留给后续论述题 AI 评分，当前始终为空。
// skipped 标记跳过事件：计入练习进度，不计入错题。
// swagger:model QuestionAttempt
type QuestionAttempt struct {
	BaseModel

	QuestionID       uint     `gorm:"index;not null" json:"questionId"`
	UserAnswer       string   `gorm:"type:text" json:"userAnswer"`
	IsCorrect        bool     `gorm:"index" json:"isCorrect"`
	Skipped          bool     `gorm:"index;default:false" json:"skipped"`
	ConfidenceScore  *float64 `json:"confidenceScore,omitempty"`
	TimeSpentSeconds int      `gorm:"default:0" json:"timeSpentSeconds"`
}

func (QuestionAttempt) TableName() string {
	return "question_attempts"
}
