package bookmarks

import (
	"context"
	"fmt"

	"github.com/otramalaga/civicmap/internal/cache"
	"github.com/otramalaga/civicmap/internal/collection"
	"github.com/otramalaga/civicmap/internal/domain"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/upstream"
)

// Service orchestrates the upstream API, the response cache and the marker
// collection. Reads of the three list endpoints go through the cache;
// every write invalidates it before the follow-up refetch.
type Service struct {
	client *upstream.Client
	cache  *cache.Cache
	store  *collection.Store
	logger logger.Logger
}

// NewService wires the bookmark service.
func NewService(client *upstream.Client, c *cache.Cache, store *collection.Store, log logger.Logger) *Service {
	return &Service{
		client: client,
		cache:  c,
		store:  store,
		logger: log,
	}
}

// Store exposes the marker collection backing this service.
func (s *Service) Store() *collection.Store {
	return s.store
}

// List returns the bookmark collection, served from cache when the entry is
// still within its expiration window.
func (s *Service) List(ctx context.Context) ([]*domain.Bookmark, error) {
	var cached []*domain.Bookmark
	if s.cache.GetInto(ctx, cache.KeyBookmarks, &cached) {
		return cached, nil
	}

	fetched, err := s.client.ListBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.KeyBookmarks, fetched)
	return fetched, nil
}

// Refresh fetches the bookmark list (through the cache) and replaces the
// marker collection snapshot with it.
func (s *Service) Refresh(ctx context.Context) error {
	bookmarks, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh collection: %w", err)
	}
	s.store.Replace(bookmarks)
	s.logger.Debug("marker collection refreshed",
		logger.Int("bookmarks", len(bookmarks)),
		logger.Int("plottable", len(s.store.Markers())))
	return nil
}

// Categories returns the upstream category vocabulary, cached.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	var cached []domain.Category
	if s.cache.GetInto(ctx, cache.KeyCategories, &cached) {
		return cached, nil
	}

	fetched, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.KeyCategories, fetched)
	return fetched, nil
}

// Tags returns the upstream tag vocabulary, cached.
func (s *Service) Tags(ctx context.Context) ([]domain.Tag, error) {
	var cached []domain.Tag
	if s.cache.GetInto(ctx, cache.KeyTags, &cached) {
		return cached, nil
	}

	fetched, err := s.client.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.KeyTags, fetched)
	return fetched, nil
}

// Search runs a server-side title search. Never cached.
func (s *Service) Search(ctx context.Context, creds *upstream.Credentials, title string) ([]*domain.Bookmark, error) {
	return s.client.SearchBookmarks(ctx, creds, title)
}

// Get fetches a single bookmark. Never cached.
func (s *Service) Get(ctx context.Context, creds *upstream.Credentials, id int64) (*domain.Bookmark, error) {
	return s.client.GetBookmark(ctx, creds, id)
}

// Create submits a new bookmark, then invalidates the cache and refreshes
// the collection so the next read reflects the write.
func (s *Service) Create(ctx context.Context, creds *upstream.Credentials, payload *upstream.BookmarkPayload) (*domain.Bookmark, error) {
	created, err := s.client.CreateBookmark(ctx, creds, payload)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx)
	return created, nil
}

// Update replaces an existing bookmark and re-syncs the collection.
func (s *Service) Update(ctx context.Context, creds *upstream.Credentials, id int64, payload *upstream.BookmarkPayload) (*domain.Bookmark, error) {
	updated, err := s.client.UpdateBookmark(ctx, creds, id, payload)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx)
	return updated, nil
}

// Delete removes a bookmark and re-syncs the collection.
func (s *Service) Delete(ctx context.Context, creds *upstream.Credentials, id int64) error {
	if err := s.client.DeleteBookmark(ctx, creds, id); err != nil {
		return err
	}
	s.afterWrite(ctx)
	return nil
}

// Owner resolves a bookmark owner's public identity, degrading to an
// anonymous record when the backend cannot serve it.
func (s *Service) Owner(ctx context.Context, creds *upstream.Credentials, id int64) *domain.User {
	user, err := s.client.GetUser(ctx, creds, id)
	if err != nil {
		s.logger.Debug("owner lookup failed, using anonymous fallback",
			logger.Int64("user_id", id),
			logger.Error(err))
		return &domain.User{ID: id, Name: "Usuario Anónimo"}
	}
	return user
}

// afterWrite sequences invalidate-then-refetch: the invalidation always
// logically precedes the next read it affects.
func (s *Service) afterWrite(ctx context.Context) {
	s.cache.InvalidateAll(ctx)
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("post-write refresh failed", logger.Error(err))
	}
}
