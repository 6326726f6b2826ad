package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mtzalva/backend-taller/internal/common"
)

// Fetcher retrieves a catalog collection from the upstream.
type Fetcher interface {
	Fetch(ctx context.Context, kind Kind, bearerToken string) ([]Item, error)
}

// Service resolves catalog collections through the cache, falling back to the
// stale copy when the upstream cannot be reached.
type Service struct {
	Client Fetcher
	Cache  *Cache
	Logger zerolog.Logger
}

// List returns a catalog collection. Resolution order: fresh cache, live
// fetch (which repopulates the cache), then the stale copy. When all three
// fail the upstream error is returned as-is so the handler can relay the
// classified status.
func (s *Service) List(ctx context.Context, kind Kind, bearerToken string) ([]Item, error) {
	if !kind.Valid() {
		return nil, common.NewAppError("NOT_FOUND", "El recurso solicitado no existe.", 404, nil)
	}

	if s.Cache != nil {
		items, err := s.Cache.Get(ctx, kind)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.Logger.Warn().Err(err).Str("kind", string(kind)).Msg("catalog cache read failed")
		}
	}

	items, fetchErr := s.Client.Fetch(ctx, kind, bearerToken)
	if fetchErr == nil {
		if s.Cache != nil {
			if err := s.Cache.Set(ctx, kind, items); err != nil {
				s.Logger.Warn().Err(err).Str("kind", string(kind)).Msg("catalog cache write failed")
			}
		}
		return items, nil
	}

	if s.Cache != nil {
		stale, err := s.Cache.GetStale(ctx, kind)
		if err == nil {
			s.Logger.Warn().Err(fetchErr).Str("kind", string(kind)).Msg("catalog upstream failed, serving stale copy")
			return stale, nil
		}
	}
	return nil, fetchErr
}

// Refresh forces a live fetch and repopulates the cache.
func (s *Service) Refresh(ctx context.Context, kind Kind, bearerToken string) ([]Item, error) {
	items, err := s.Client.Fetch(ctx, kind, bearerToken)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if cacheErr := s.Cache.Set(ctx, kind, items); cacheErr != nil {
			s.Logger.Warn().Err(cacheErr).Str("kind", string(kind)).Msg("catalog cache write failed")
		}
	}
	return items, nil
}
