package repository

import (
	"shuati_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionSetRepository struct {
	DB *gorm.DB
}

func NewQuestionSetRepository(db *gorm.DB) *QuestionSetRepository {
	return &QuestionSetRepository{DB: db}
}

func (r *QuestionSetRepository) Create(set *model.QuestionSet) error {
	return r.DB.Create(set).Error
}

func (r *QuestionSetRepository) FindByID(id uint) (*model.QuestionSet, error) {
	var set model.QuestionSet
	if err := r.DB.First(&set, id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *QuestionSetRepository) FindAll() ([]model.QuestionSet, error) {
	var sets []model.QuestionSet
	err := r.DB.Order("id DESC").Find(&sets).Error
	return sets, err
}

func (r *QuestionSetRepository) Update(set *model.QuestionSet) error {
	return r.DB.Save(set).Error
}

func (r *QuestionSetRepository) Delete(id uint) error {
	return r.DB.Delete(&model.QuestionSet{}, id).Error
}
