package catalog

import (
	"context"

	"constructhub/internal/domain"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// Service serves the bilingual category reference data.
type Service struct {
	categories CategoryRepository
}

func NewService(categories CategoryRepository) *Service {
	return &Service{categories: categories}
}

// Categories returns every category with its subcategories, with display
// names resolved for lang.
func (s *Service) Categories(ctx context.Context, lang domain.Language) ([]CategoryResponse, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		item := CategoryResponse{
			ID:            c.ID,
			Name:          c.Name(lang),
			NameEn:        c.NameEn,
			NameAm:        c.NameAm,
			Description:   c.Description(lang),
			Subcategories: make([]SubcategoryResponse, 0, len(c.Subcategories)),
		}
		for _, sc := range c.Subcategories {
			item.Subcategories = append(item.Subcategories, SubcategoryResponse{
				ID:         sc.ID,
				CategoryID: sc.CategoryID,
				Name:       sc.Name(lang),
				NameEn:     sc.NameEn,
				NameAm:     sc.NameAm,
			})
		}
		out = append(out, item)
	}
	return out, nil
}
