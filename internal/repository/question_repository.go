package repository

import (
	"strings"

	"shuati_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// InsertBatch 在单个事务内写入全部题目并更新题集计数，任一失败整体回滚
func (r *QuestionRepository) InsertBatch(setID uint, questions []model.Question) ([]uint, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(questions))
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			questions[i].SetID = setID
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		if setID != 0 {
			if err := tx.Model(&model.QuestionSet{}).Where("id = ?", setID).
				UpdateColumn("total_questions", gorm.Expr("total_questions + ?", len(questions))).Error; err != nil {
				return err
			}
		}
		for _, q := range questions {
			ids = append(ids, q.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindBySet(setID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("set_id = ?", setID).Order("number, id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Order("id").Find(&questions).Error
	return questions, err
}

// Search 按关键字、题型、难度过滤；标签匹配在内存中完成，JSON 列不做 LIKE 猜测
func (r *QuestionRepository) Search(keyword, questionType string, difficulty int, tag string) ([]model.Question, error) {
	query := r.DB.Model(&model.Question{})
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("stem LIKE ? OR reference_answer LIKE ?", pattern, pattern)
	}
	if questionType != "" {
		query = query.Where("question_type = ?", questionType)
	}
	if difficulty > 0 {
		query = query.Where("difficulty = ?", difficulty)
	}

	var questions []model.Question
	if err := query.Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}
	if tag == "" {
		return questions, nil
	}
	matched := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.HasTag(tag) {
			matched = append(matched, q)
		}
	}
	return matched, nil
}
