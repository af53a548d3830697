package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/search"
	"github.com/smartspb/mediabot/internal/store"
)

// SearchService keeps the text index filled and answers text queries.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search returns the IDs of userID's entries matching query, best match first.
func (s *SearchService) Search(ctx context.Context, userID int64, query string) ([]int64, error) {
	res, err := s.index.Search(ctx, search.SearchParams{UserID: userID, Query: query})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("text search", "user_id", userID, "hits", len(res.Hits), "took_ms", res.TookMs)
	return res.ContentIDs(), nil
}

// EnsureIndexed fills the index from the database when it was just created.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	if !s.index.Created() {
		return nil
	}
	return s.ReindexAll(ctx)
}

// ReindexAll rebuilds the index from every stored entry.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	var docs []*search.SearchDocument
	err := s.store.ForEachContent(ctx, func(c *domain.Content, tags []string) error {
		docs = append(docs, search.NewDocument(c, tags))
		return nil
	})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if len(docs) > 0 {
		if err := s.index.IndexDocuments(docs); err != nil {
			return fmt.Errorf("index entries: %w", err)
		}
	}

	total, _ := s.index.DocumentCount()
	s.logger.Info("full reindex complete", "total_documents", total)
	return nil
}

// DocumentCount returns the number of indexed entries.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
