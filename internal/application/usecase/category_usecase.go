package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/privat-admin-api/internal/application/dto"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías de servicio.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// List todas las categorías. Con lang "it" se ordena por name_it con colación italiana;
// en otro caso se respeta el orden por name_en del repositorio.
func (uc *CategoryUseCase) List(ctx context.Context, lang string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(lang, "it") {
		col := collate.New(language.Italian, collate.IgnoreCase)
		sort.SliceStable(list, func(i, j int) bool {
			return col.CompareString(list[i].NameIT, list[j].NameIT) < 0
		})
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Create valida los campos obligatorios; credits por defecto 0.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &entity.ServiceCategory{
		ID:       strings.TrimSpace(in.ID),
		NameEN:   strings.TrimSpace(in.NameEN),
		NameIT:   strings.TrimSpace(in.NameIT),
		Icon:     strings.TrimSpace(in.Icon),
		ImageURI: strings.TrimSpace(in.ImageURI),
	}
	if c.ID == "" || c.NameEN == "" || c.NameIT == "" || c.Icon == "" || c.ImageURI == "" {
		return nil, fmt.Errorf("%w: id, name_en, name_it, icon e image_uri son obligatorios", domain.ErrInvalidInput)
	}
	if in.Credits != nil {
		if *in.Credits < 0 {
			return nil, fmt.Errorf("%w: credits no puede ser negativo", domain.ErrInvalidInput)
		}
		c.Credits = *in.Credits
	}
	if in.Hidden != nil {
		c.Hidden = *in.Hidden
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Update actualización parcial. Devuelve (nil, nil) si no existe.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Credits != nil && *in.Credits < 0 {
		return nil, fmt.Errorf("%w: credits no puede ser negativo", domain.ErrInvalidInput)
	}
	c, err := uc.repo.Update(ctx, id, repository.CategoryPatch{
		NameEN:   in.NameEN,
		NameIT:   in.NameIT,
		Icon:     in.Icon,
		ImageURI: in.ImageURI,
		Credits:  in.Credits,
		Hidden:   in.Hidden,
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Delete elimina la categoría (idempotente).
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.ServiceCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:       c.ID,
		NameEN:   c.NameEN,
		NameIT:   c.NameIT,
		Icon:     c.Icon,
		ImageURI: c.ImageURI,
		Credits:  c.Credits,
		Hidden:   c.Hidden,
	}
}
