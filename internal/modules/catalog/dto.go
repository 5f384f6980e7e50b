package catalog

type SubcategoryResponse struct {
	ID         int64  `json:"id"`
	CategoryID *int64 `json:"category_id,omitempty"`
	Name       string `json:"name"`
	NameEn     string `json:"name_en"`
	NameAm     string `json:"name_am"`
}

type CategoryResponse struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	NameEn        string                `json:"name_en"`
	NameAm        string                `json:"name_am"`
	Description   string                `json:"description,omitempty"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}
