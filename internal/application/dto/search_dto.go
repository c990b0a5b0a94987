package dto

// RecordSearchRequest entrada de POST /api/search-history/:scope.
type RecordSearchRequest struct {
	Key   string `json:"key" validate:"required,max=200"`
	Label string `json:"label" validate:"omitempty,max=200"`
}
