package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// CategoryStore service_categories en memoria, ordenadas por name_en como el adaptador Postgres.
type CategoryStore struct {
	mu   sync.RWMutex
	rows map[string]entity.ServiceCategory
}

// NewCategoryStore crea el store con las categorías dadas.
func NewCategoryStore(categories ...entity.ServiceCategory) *CategoryStore {
	s := &CategoryStore{rows: map[string]entity.ServiceCategory{}}
	for _, c := range categories {
		s.rows[c.ID] = c
	}
	return s
}

func (s *CategoryStore) List(context.Context) ([]*entity.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.ServiceCategory, 0, len(s.rows))
	for _, c := range s.rows {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEN < out[j].NameEN })
	return out, nil
}

func (s *CategoryStore) GetByID(_ context.Context, id string) (*entity.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CategoryStore) Create(_ context.Context, c *entity.ServiceCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[c.ID]; ok {
		return domain.ErrDuplicate
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *CategoryStore) Update(_ context.Context, id string, p repository.CategoryPatch) (*entity.ServiceCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	if p.NameEN != nil {
		c.NameEN = *p.NameEN
	}
	if p.NameIT != nil {
		c.NameIT = *p.NameIT
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.ImageURI != nil {
		c.ImageURI = *p.ImageURI
	}
	if p.Credits != nil {
		c.Credits = *p.Credits
	}
	if p.Hidden != nil {
		c.Hidden = *p.Hidden
	}
	s.rows[id] = c
	return &c, nil
}

func (s *CategoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}
