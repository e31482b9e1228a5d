package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/echoes-intel/playint/internal/common"
	"github.com/echoes-intel/playint/internal/domain"
	"github.com/echoes-intel/playint/pkg/cache"
	pkglogger "github.com/echoes-intel/playint/pkg/logger"
	"github.com/echoes-intel/playint/pkg/tmdb"
)

const (
	mediaMinQueryLen = 2
	mediaMaxResults  = 10
	posterBaseURL    = "https://image.tmdb.org/t/p/w92"
)

// MediaSearcher upstream multi search
type MediaSearcher interface {
	SearchMulti(ctx context.Context, query string) ([]tmdb.Item, error)
}

// MediaService handles movie/tv autocomplete for the movie list page
type MediaService struct {
	searcher MediaSearcher
	cache    *cache.Typed[[]domain.MediaResult]
	ttl      time.Duration
}

// NewMediaService creates a new MediaService. cacheSvc may be nil.
func NewMediaService(searcher MediaSearcher, cacheSvc cache.Service, ttl time.Duration) *MediaService {
	if ttl <= 0 {
		ttl = cache.TTLMediaSearch
	}
	return &MediaService{
		searcher: searcher,
		cache:    cache.NewTyped[[]domain.MediaResult](cacheSvc),
		ttl:      ttl,
	}
}

// Search returns up to 10 movie or tv matches for q
func (s *MediaService) Search(ctx context.Context, q string) ([]domain.MediaResult, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < mediaMinQueryLen {
		return []domain.MediaResult{}, nil
	}

	key := cache.PrefixMediaSearch + strings.ToLower(q)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	items, err := s.searcher.SearchMulti(ctx, q)
	if err != nil {
		log := pkglogger.WithComponent("media")
		log.Error().Err(err).Str("query", q).Msg("tmdb search failed")
		return nil, fmt.Errorf("%w: %v", common.ErrMediaSearch, err)
	}

	results := RankMedia(q, items, mediaMaxResults)

	if err := s.cache.Put(ctx, key, results, s.ttl); err != nil {
		pkglogger.Warn("[Media] cache put failed for %q: %v", q, err)
	}
	return results, nil
}

// RankMedia keeps movies and tv shows, puts titles starting with q first,
// then orders by popularity.
func RankMedia(q string, items []tmdb.Item, limit int) []domain.MediaResult {
	prefix := strings.ToLower(q)
	results := make([]domain.MediaResult, 0, len(items))

	for _, it := range items {
		var title, date string
		switch it.MediaType {
		case "movie":
			title, date = it.Title, it.ReleaseDate
		case "tv":
			title, date = it.Name, it.FirstAirDate
		default:
			continue
		}

		r := domain.MediaResult{
			ID:         it.ID,
			Type:       it.MediaType,
			Title:      title,
			Popularity: it.Popularity,
		}
		if len(date) >= 4 {
			r.Year = date[:4]
		}
		if it.PosterPath != "" {
			r.Poster = posterBaseURL + it.PosterPath
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(results[i].Title), prefix)
		pj := strings.HasPrefix(strings.ToLower(results[j].Title), prefix)
		if pi != pj {
			return pi
		}
		return results[i].Popularity > results[j].Popularity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
