package entity

// Category categoría del marketplace (API pública).
type Category struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	TotalItems         int           `json:"total_items_in_this_category,omitempty"`
	PathFromRoot       []CategoryRef `json:"path_from_root,omitempty"`
	ChildrenCategories []CategoryRef `json:"children_categories,omitempty"`
}

// CategoryRef referencia corta a una categoría.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryAttribute atributo que acepta una categoría al publicar.
type CategoryAttribute struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	ValueType string           `json:"value_type"`
	Required  bool             `json:"required"`
	Values    []AttributeValue `json:"values,omitempty"`
}

// AttributeValue valor permitido de un atributo.
type AttributeValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryPrediction sugerencia de categoría para un título libre.
type CategoryPrediction struct {
	DomainID     string `json:"domain_id"`
	DomainName   string `json:"domain_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}
