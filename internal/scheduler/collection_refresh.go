package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/otramalaga/civicmap/internal/bookmarks"
	"github.com/otramalaga/civicmap/internal/logger"
)

// CollectionRefresher handles periodic refetching of the bookmark collection
// and vocabularies through the cache.
type CollectionRefresher struct {
	service       *bookmarks.Service
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCollectionRefresher creates a new collection refresher. Writes push
// into manualTrigger for an immediate out-of-cycle refresh.
func NewCollectionRefresher(
	service *bookmarks.Service,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CollectionRefresher {
	return &CollectionRefresher{
		service:       service,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic refresh process
func (cr *CollectionRefresher) Start(ctx context.Context) error {
	// Load immediately on start
	if err := cr.Refresh(ctx); err != nil {
		return fmt.Errorf("initial collection refresh failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Refresh(ctx); err != nil {
					cr.logger.Error("failed to refresh collection",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual collection refresh triggered")
				if err := cr.Refresh(ctx); err != nil {
					cr.logger.Error("failed to refresh collection",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher
func (cr *CollectionRefresher) Stop() {
	close(cr.stopCh)
}

// Refresh pulls the bookmark list plus both vocabularies and swaps the
// collection snapshot.
func (cr *CollectionRefresher) Refresh(ctx context.Context) error {
	if err := cr.service.Refresh(ctx); err != nil {
		return err
	}

	// Vocabulary fetches warm the cache; failures are not fatal because
	// the collection derives its own fallback vocabularies.
	if _, err := cr.service.Categories(ctx); err != nil {
		cr.logger.Warn("failed to refresh categories", logger.Error(err))
	}
	if _, err := cr.service.Tags(ctx); err != nil {
		cr.logger.Warn("failed to refresh tags", logger.Error(err))
	}

	cr.logger.Debug("collection refresh complete",
		logger.Int("bookmarks", cr.service.Store().Count()))
	return nil
}
