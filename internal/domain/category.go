package domain

import "strings"

type Language string

const (
	LangEnglish Language = "en"
	LangAmharic Language = "am"
)

// ParseLanguage falls back to English for anything it does not know.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangAmharic:
		return LangAmharic
	default:
		return LangEnglish
	}
}

type Category struct {
	ID            int64         `json:"id"`
	NameEn        string        `json:"name_en"`
	NameAm        string        `json:"name_am"`
	DescriptionEn string        `json:"description_en,omitempty"`
	DescriptionAm string        `json:"description_am,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

func (c Category) Name(lang Language) string {
	return pick(lang, c.NameEn, c.NameAm)
}

func (c Category) Description(lang Language) string {
	return pick(lang, c.DescriptionEn, c.DescriptionAm)
}

type Subcategory struct {
	ID         int64  `json:"id"`
	CategoryID *int64 `json:"category_id,omitempty"`
	NameEn     string `json:"name_en"`
	NameAm     string `json:"name_am"`
}

func (s Subcategory) Name(lang Language) string {
	return pick(lang, s.NameEn, s.NameAm)
}

// BelongsTo reports whether the subcategory may be used under categoryID.
// Subcategories without a parent are shared by every category.
func (s Subcategory) BelongsTo(categoryID int64) bool {
	return s.CategoryID == nil || *s.CategoryID == categoryID
}

func pick(lang Language, en, am string) string {
	if lang == LangAmharic && am != "" {
		return am
	}
	return en
}
