package entity

// ServiceCategory categoría de servicio (nombres en inglés e italiano).
// Credits es el costo en créditos para desbloquear un lead de la categoría.
type ServiceCategory struct {
	ID       string
	NameEN   string
	NameIT   string
	Icon     string
	ImageURI string
	Credits  int
	Hidden   bool
}
