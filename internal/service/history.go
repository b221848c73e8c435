package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/internal/cache"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/search"
)

// recentHistoryTTL bounds how stale the cached default history window can be.
// Every committed mutation also invalidates it explicitly.
const recentHistoryTTL = 30 * time.Second

// HistoryService exposes the action history to the history view and the
// recovery scan, and pushes committed entries into the audit-search index.
type HistoryService struct {
	store     repository.Store
	elastic   *search.ElasticClient
	cache     *cache.RedisCache
	listLimit int
}

// NewHistoryService creates a new history service
func NewHistoryService(store repository.Store, elastic *search.ElasticClient, redisCache *cache.RedisCache, listLimit int) *HistoryService {
	if listLimit <= 0 {
		listLimit = 200
	}
	return &HistoryService{
		store:     store,
		elastic:   elastic,
		cache:     redisCache,
		listLimit: listLimit,
	}
}

// List returns the most recent history entries, newest first. A non-positive
// limit falls back to the configured default; the default window is cached
// briefly because the history view polls it.
func (s *HistoryService) List(ctx context.Context, limit int) ([]*models.ActionHistoryEntry, error) {
	useCache := limit <= 0 && s.cache.Enabled()
	if limit <= 0 {
		limit = s.listLimit
	}

	if useCache {
		var cached []*models.ActionHistoryEntry
		if err := s.cache.Get(ctx, cache.RecentHistoryKey(), &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.store.History().List(ctx, limit)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.Set(ctx, cache.RecentHistoryKey(), entries, recentHistoryTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache recent history window")
		}
	}
	return entries, nil
}

// Search queries the audit index for entries matching the given text. It is
// only available when the search index is configured.
func (s *HistoryService) Search(ctx context.Context, text string, limit int) ([]map[string]interface{}, error) {
	if s.elastic == nil {
		return nil, ErrSearchUnavailable
	}
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}
	return s.elastic.SearchHistory(ctx, text, limit)
}

// Index pushes a committed entry into the audit-search index and drops the
// cached recent window. Best effort: failures are logged and swallowed, the
// entry is already durably persisted.
func (s *HistoryService) Index(ctx context.Context, entry *models.ActionHistoryEntry) {
	if entry == nil {
		return
	}

	if s.cache.Enabled() {
		if err := s.cache.Delete(ctx, cache.RecentHistoryKey()); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate recent history window")
		}
	}

	if s.elastic == nil {
		return
	}
	if err := s.elastic.IndexHistoryEntry(ctx, entry); err != nil {
		log.Warn().Err(err).Str("entry_id", entry.ID.String()).Msg("failed to index history entry")
	}
}
