package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
)

var _ repository.IdentityRepository = (*IdentityDirectory)(nil)

// IdentityDirectory directorio de identidades en memoria con contadores de llamadas y fallos
// inyectables (ListErr, GetErr, UpdateErr, DeleteErr).
type IdentityDirectory struct {
	mu         sync.RWMutex
	identities map[string]*entity.Identity
	order      []string

	ListErr   error
	GetErr    error
	UpdateErr error
	DeleteErr error

	listCalls   atomic.Int64
	updateCalls atomic.Int64
}

// NewIdentityDirectory crea el directorio con las identidades dadas (en ese orden de paginación).
func NewIdentityDirectory(identities ...*entity.Identity) *IdentityDirectory {
	d := &IdentityDirectory{identities: map[string]*entity.Identity{}}
	for _, i := range identities {
		d.Put(i)
	}
	return d
}

// Put agrega o reemplaza una identidad.
func (d *IdentityDirectory) Put(i *entity.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.identities[i.ID]; !ok {
		d.order = append(d.order, i.ID)
	}
	d.identities[i.ID] = copyIdentity(i)
}

// ListPage página 1-based de tamaño perPage.
func (d *IdentityDirectory) ListPage(_ context.Context, page, perPage int) ([]*entity.Identity, error) {
	d.listCalls.Add(1)
	if d.ListErr != nil {
		return nil, d.ListErr
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	start := (page - 1) * perPage
	if start < 0 || start >= len(d.order) {
		return []*entity.Identity{}, nil
	}
	end := start + perPage
	if end > len(d.order) {
		end = len(d.order)
	}
	out := make([]*entity.Identity, 0, end-start)
	for _, id := range d.order[start:end] {
		out = append(out, copyIdentity(d.identities[id]))
	}
	return out, nil
}

// GetByID copia de la identidad; (nil, nil) si no existe.
func (d *IdentityDirectory) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	if d.GetErr != nil {
		return nil, d.GetErr
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.identities[id]
	if !ok {
		return nil, nil
	}
	return copyIdentity(i), nil
}

// UpdateUserMetadata reemplaza la bolsa completa, como el API admin de Supabase.
func (d *IdentityDirectory) UpdateUserMetadata(_ context.Context, id string, metadata entity.Metadata) error {
	d.updateCalls.Add(1)
	if d.UpdateErr != nil {
		return d.UpdateErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.identities[id]
	if !ok {
		return nil
	}
	i.UserMetadata = metadata.Clone()
	return nil
}

// Delete borra la identidad.
func (d *IdentityDirectory) Delete(_ context.Context, id string) error {
	if d.DeleteErr != nil {
		return d.DeleteErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.identities, id)
	for n, v := range d.order {
		if v == id {
			d.order = append(d.order[:n], d.order[n+1:]...)
			break
		}
	}
	return nil
}

// Metadata copia de la metadata actual (para asserts).
func (d *IdentityDirectory) Metadata(id string) entity.Metadata {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i, ok := d.identities[id]; ok {
		return i.UserMetadata.Clone()
	}
	return nil
}

// ListCalls páginas pedidas desde la creación.
func (d *IdentityDirectory) ListCalls() int64 { return d.listCalls.Load() }

// UpdateCalls escrituras de metadata intentadas.
func (d *IdentityDirectory) UpdateCalls() int64 { return d.updateCalls.Load() }

// IDs ids en orden de paginación.
func (d *IdentityDirectory) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...)
}

func copyIdentity(i *entity.Identity) *entity.Identity {
	c := *i
	if i.UserMetadata != nil {
		c.UserMetadata = i.UserMetadata.Clone()
	} else {
		c.UserMetadata = entity.Metadata{}
	}
	if i.AppMetadata != nil {
		c.AppMetadata = i.AppMetadata.Clone()
	}
	return &c
}
