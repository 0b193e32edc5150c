package service

import (
	"context"
	"sync"

	"github.com/marcadamcarter/pantry-scanner/internal/dto"
	"github.com/marcadamcarter/pantry-scanner/internal/infra"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// CatalogFetcher is the external catalog collaborator. A (nil, nil) return
// means the catalog does not know the code — a normal outcome, not an error.
type CatalogFetcher interface {
	Fetch(ctx context.Context, code string) (*dto.ProductInfo, error)
}

// LookupService resolves barcodes to product metadata through an in-memory,
// process-lifetime cache over the external catalog.
//
// Contract:
//   - hits are memoized: a cached code never re-fetches
//   - misses are NOT cached: every lookup of an unknown code re-queries, so
//     codes added to the catalog later start resolving without a restart
//   - concurrent lookups for the same uncached code coalesce into a single
//     in-flight fetch whose result fans out to all waiters
type LookupService interface {
	Lookup(ctx context.Context, code string) (*dto.ProductInfo, error)
}

type lookupService struct {
	fetcher CatalogFetcher
	cb      *infra.CircuitBreaker

	mu    sync.RWMutex
	cache map[string]dto.ProductInfo
	group singleflight.Group
}

func NewLookupService(fetcher CatalogFetcher, cb *infra.CircuitBreaker) LookupService {
	return &lookupService{
		fetcher: fetcher,
		cb:      cb,
		cache:   make(map[string]dto.ProductInfo),
	}
}

func (s *lookupService) Lookup(ctx context.Context, code string) (*dto.ProductInfo, error) {
	s.mu.RLock()
	cached, ok := s.cache[code]
	s.mu.RUnlock()
	if ok {
		product := cached
		return &product, nil
	}

	// singleflight keys on the code, so at most one fetch per code is in
	// flight; late arrivals block on the shared call instead of re-fetching.
	v, err, _ := s.group.Do(code, func() (interface{}, error) {
		// A flight that completed between our cache check and Do's dedup
		// may have already filled the cache.
		s.mu.RLock()
		cached, ok := s.cache[code]
		s.mu.RUnlock()
		if ok {
			product := cached
			return &product, nil
		}

		var product *dto.ProductInfo
		cbErr := s.cb.Execute(func() error {
			fetched, err := s.fetcher.Fetch(ctx, code)
			if err != nil {
				return err
			}
			product = fetched
			return nil
		})
		if cbErr != nil {
			return nil, cbErr
		}
		if product != nil {
			s.mu.Lock()
			s.cache[code] = *product
			s.mu.Unlock()
		}
		return product, nil
	})
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("catalog lookup failed")
		return nil, err
	}

	product, _ := v.(*dto.ProductInfo)
	return product, nil
}
