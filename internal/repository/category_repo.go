package repository

import (
	"context"

	"constructhub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

type categoryModel struct {
	ID            int64   `gorm:"column:id;primaryKey"`
	NameEn        string  `gorm:"column:name_en;not null"`
	NameAm        string  `gorm:"column:name_am;not null"`
	DescriptionEn *string `gorm:"column:description_en"`
	DescriptionAm *string `gorm:"column:description_am"`

	Subcategories []subcategoryModel `gorm:"foreignKey:CategoryID"`
}

func (categoryModel) TableName() string { return "categories" }

type subcategoryModel struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	CategoryID *int64 `gorm:"column:category_id;index"`
	NameEn     string `gorm:"column:name_en;not null"`
	NameAm     string `gorm:"column:name_am;not null"`
}

func (subcategoryModel) TableName() string { return "subcategories" }

func toDomainCategory(m categoryModel) domain.Category {
	c := domain.Category{
		ID:            m.ID,
		NameEn:        m.NameEn,
		NameAm:        m.NameAm,
		DescriptionEn: deref(m.DescriptionEn),
		DescriptionAm: deref(m.DescriptionAm),
	}
	for _, s := range m.Subcategories {
		c.Subcategories = append(c.Subcategories, toDomainSubcategory(s))
	}
	return c
}

func toDomainSubcategory(m subcategoryModel) domain.Subcategory {
	return domain.Subcategory{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		NameEn:     m.NameEn,
		NameAm:     m.NameAm,
	}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryModel
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var shared []subcategoryModel
	if err := r.db.WithContext(ctx).Where("category_id IS NULL").Order("id ASC").Find(&shared).Error; err != nil {
		return nil, err
	}

	// shared subcategories are listed under every category
	out := make([]domain.Category, 0, len(rows))
	for _, m := range rows {
		c := toDomainCategory(m)
		for _, sm := range shared {
			c.Subcategories = append(c.Subcategories, toDomainSubcategory(sm))
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	c := toDomainCategory(m)
	return &c, nil
}

func (r *CategoryRepository) GetSubcategory(ctx context.Context, id int64) (*domain.Subcategory, error) {
	var m subcategoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	s := toDomainSubcategory(m)
	return &s, nil
}

// Upsert writes reference data, replacing names of existing ids.
func (r *CategoryRepository) Upsert(ctx context.Context, categories []domain.Category, subcategories []domain.Subcategory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range categories {
			m := categoryModel{
				ID:            c.ID,
				NameEn:        c.NameEn,
				NameAm:        c.NameAm,
				DescriptionEn: nullable(c.DescriptionEn),
				DescriptionAm: nullable(c.DescriptionAm),
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
				return err
			}
		}
		for _, s := range subcategories {
			m := subcategoryModel{
				ID:         s.ID,
				CategoryID: s.CategoryID,
				NameEn:     s.NameEn,
				NameAm:     s.NameAm,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
