package repository

import (
	"shuati_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuestionAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByQuestion(questionID uint) ([]model.QuestionAttempt, error) {
	var attempts []model.QuestionAttempt
	err := r.DB.Where("question_id = ?", questionID).Order("id").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByQuestion(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestionAttempt{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}

// IncorrectCounts 按题目聚合错误次数，只返回至少错过一次的题目；跳过不算错
func (r *AttemptRepository) IncorrectCounts() (map[uint]int64, error) {
	type row struct {
		QuestionID uint
		Count      int64
	}
	var rows []row
	err := r.DB.Model(&model.QuestionAttempt{}).
		Select("question_id, COUNT(*) as count").
		Where("is_correct = ? AND skipped = ?", false, false).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, rw := range rows {
		counts[rw.QuestionID] = rw.Count
	}
	return counts, nil
}

// AnsweredStats 返回题集内已作答、答对过与跳过过的题目数，用于进度统计。
// 跳过不算作答。
func (r *AttemptRepository) AnsweredStats(setID uint) (answered, correct, skipped int64, err error) {
	base := r.DB.Model(&model.QuestionAttempt{}).
		Joins("JOIN questions ON questions.id = question_attempts.question_id").
		Where("questions.set_id = ?", setID)

	if err = base.Session(&gorm.Session{}).
		Where("question_attempts.skipped = ?", false).
		Distinct("question_attempts.question_id").Count(&answered).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).
		Where("question_attempts.is_correct = ?", true).
		Distinct("question_attempts.question_id").Count(&correct).Error; err != nil {
		return 0, 0, 0, err
	}
	err = base.Session(&gorm.Session{}).
		Where("question_attempts.skipped = ?", true).
		Distinct("question_attempts.question_id").Count(&skipped).Error
	return answered, correct, skipped, err
}
