package model

// QuestionSet 题目集。TotalQuestions 在批量导入事务内维护。
// swagger:model QuestionSet
type QuestionSet struct {
	BaseModel

	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	SourcePath     string `gorm:"size:512" json:"sourcePath"`
	TotalQuestions int    `gorm:"default:0" json:"totalQuestions"`
}

func (QuestionSet) TableName() string {
	return "question_sets"
}
