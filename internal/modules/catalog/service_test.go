package catalog

import (
	"context"
	"errors"
	"testing"

	"constructhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCategories_Localized(t *testing.T) {
	parent := int64(2)
	repo := new(mockCategoryRepo)
	repo.On("List", mock.Anything).Return([]domain.Category{
		{ID: 1, NameEn: "Building Construction", NameAm: "የህንፃ ግንባታ"},
		{ID: 2, NameEn: "Road Construction", NameAm: "የመንገድ ግንባታ", Subcategories: []domain.Subcategory{
			{ID: 10, CategoryID: &parent, NameEn: "Bridge", NameAm: "ድልድይ"},
		}},
	}, nil)

	svc := NewService(repo)

	am, err := svc.Categories(context.Background(), domain.LangAmharic)
	require.NoError(t, err)
	require.Len(t, am, 2)
	assert.Equal(t, "የህንፃ ግንባታ", am[0].Name)
	assert.Empty(t, am[0].Subcategories)
	assert.Equal(t, "ድልድይ", am[1].Subcategories[0].Name)

	en, err := svc.Categories(context.Background(), domain.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Road Construction", en[1].Name)
	assert.Equal(t, "Bridge", en[1].Subcategories[0].Name)

	repo.AssertExpectations(t)
}

func TestCategories_StoreError(t *testing.T) {
	repo := new(mockCategoryRepo)
	repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewService(repo).Categories(context.Background(), domain.LangEnglish)
	assert.Error(t, err)
}
