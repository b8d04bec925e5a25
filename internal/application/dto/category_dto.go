package dto

// CategoryResponse fila de service_categories.
type CategoryResponse struct {
	ID       string `json:"id"`
	NameEN   string `json:"name_en"`
	NameIT   string `json:"name_it"`
	Icon     string `json:"icon"`
	ImageURI string `json:"image_uri"`
	Credits  int    `json:"credits"`
	Hidden   bool   `json:"hidden"`
}

// CreateCategoryRequest id, nombres, icono e imagen son obligatorios.
type CreateCategoryRequest struct {
	ID       string `json:"id"`
	NameEN   string `json:"name_en"`
	NameIT   string `json:"name_it"`
	Icon     string `json:"icon"`
	ImageURI string `json:"image_uri"`
	Credits  *int   `json:"credits"`
	Hidden   *bool  `json:"hidden"`
}

// UpdateCategoryRequest actualización parcial; los campos nil no se tocan.
type UpdateCategoryRequest struct {
	NameEN   *string `json:"name_en"`
	NameIT   *string `json:"name_it"`
	Icon     *string `json:"icon"`
	ImageURI *string `json:"image_uri"`
	Credits  *int    `json:"credits"`
	Hidden   *bool   `json:"hidden"`
}
