package directory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// Valores por defecto del snapshot del directorio.
const (
	DefaultTTL      = 2 * time.Minute
	DefaultPageSize = 1000
)

// Snapshot lista completa de usuarios (sin admins) y el instante en que se tomó.
type Snapshot struct {
	Users   []entity.User `json:"users"`
	TakenAt time.Time     `json:"takenAt"`
}

// SnapshotStore dónde vive el snapshot: memoria del proceso o Redis compartido entre instancias.
// Load devuelve (nil, nil) si no hay snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Cache snapshot con TTL del directorio de identidades. Un acierto no llama al proveedor.
type Cache struct {
	identity repository.IdentityRepository
	store    SnapshotStore
	ttl      time.Duration
	pageSize int
	now      func() time.Time
	log      *logger.Logger

	// refresh serializa las recargas para que N lecturas concurrentes sin snapshot hagan un solo barrido.
	refresh sync.Mutex
	// generation crece con cada Invalidate; una recarga que la ve cambiar no guarda su resultado.
	generation atomic.Uint64
}

// Option configura el Cache.
type Option func(*Cache)

// WithTTL duración del snapshot.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPageSize tamaño de página al listar el proveedor de identidad.
func WithPageSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithClock reloj inyectable (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache construye el caché del directorio.
func NewCache(identity repository.IdentityRepository, store SnapshotStore, log *logger.Logger, opts ...Option) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	c := &Cache{
		identity: identity,
		store:    store,
		ttl:      DefaultTTL,
		pageSize: DefaultPageSize,
		now:      time.Now,
		log:      log.Component("directory"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListUsers devuelve el snapshot vigente o recorre el directorio completo y lo guarda.
func (c *Cache) ListUsers(ctx context.Context) ([]entity.User, error) {
	if snap := c.fresh(ctx); snap != nil {
		metrics.DirectoryCache.WithLabelValues("hit").Inc()
		return snap.Users, nil
	}

	c.refresh.Lock()
	defer c.refresh.Unlock()
	if snap := c.fresh(ctx); snap != nil {
		metrics.DirectoryCache.WithLabelValues("hit").Inc()
		return snap.Users, nil
	}
	metrics.DirectoryCache.WithLabelValues("miss").Inc()

	gen := c.generation.Load()
	started := c.now()
	users, pages, err := c.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if c.generation.Load() != gen {
		c.log.Debug().Msg("directorio invalidado durante la recarga, no se guarda el snapshot")
	} else if err := c.store.Save(ctx, &Snapshot{Users: users, TakenAt: started}, c.ttl); err != nil {
		c.log.Warn().Err(err).Msg("guardar snapshot del directorio")
	}
	c.log.Info().
		Int("users", len(users)).
		Int("pages", pages).
		Dur("elapsed", c.now().Sub(started)).
		Msg("directorio de usuarios recargado")
	return users, nil
}

// Invalidate descarta el snapshot; la próxima lectura recorre el directorio.
func (c *Cache) Invalidate(ctx context.Context) error {
	metrics.DirectoryCache.WithLabelValues("invalidate").Inc()
	c.generation.Add(1)
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("invalidar snapshot: %w", err)
	}
	return nil
}

func (c *Cache) fresh(ctx context.Context) *Snapshot {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("leer snapshot del directorio")
		return nil
	}
	if snap == nil || c.now().Sub(snap.TakenAt) >= c.ttl {
		return nil
	}
	return snap
}

// fetchAll pide páginas hasta recibir una incompleta. Los admins no se proyectan.
func (c *Cache) fetchAll(ctx context.Context) ([]entity.User, int, error) {
	users := []entity.User{}
	page := 1
	for {
		batch, err := c.identity.ListPage(ctx, page, c.pageSize)
		if err != nil {
			return nil, page, fmt.Errorf("%w: listar usuarios (página %d): %v", domain.ErrUpstream, page, err)
		}
		for _, ident := range batch {
			if u, ok := entity.ProjectUser(ident); ok {
				users = append(users, u)
			}
		}
		if len(batch) < c.pageSize {
			return users, page, nil
		}
		page++
	}
}
