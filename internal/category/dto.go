package category

import (
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CategoryDTO struct {
	Name string `json:"name"`
}

func (d CategoryDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).
		Required().
		MaxLength(100)
	return validator.Validate()
}
