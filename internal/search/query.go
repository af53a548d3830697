package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	apperrors "github.com/smartspb/mediabot/internal/errors"
)

// DefaultLimit caps the number of hits returned when SearchParams.Limit is unset.
const DefaultLimit = 200

// SearchParams configures a search query.
type SearchParams struct {
	UserID int64  // Only this owner's entries are searched
	Query  string // Free text; matched against descriptions and tags
	Limit  int
}

// SearchResult holds the hits of a query, best first.
type SearchResult struct {
	Query  string
	Total  uint64
	TookMs int64
	Hits   []SearchHit
}

// SearchHit is a single matching entry.
type SearchHit struct {
	ContentID int64
	Score     float64
}

// ContentIDs returns the matched content IDs in hit order.
func (r *SearchResult) ContentIDs() []int64 {
	ids := make([]int64, 0, len(r.Hits))
	for _, h := range r.Hits {
		ids = append(ids, h.ContentID)
	}
	return ids
}

// Search runs a text query scoped to one owner.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	text := strings.TrimSpace(params.Query)
	if text == "" {
		return nil, apperrors.Validation("search query is empty")
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params.UserID, text), params.Limit, 0, false)

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	result := &SearchResult{
		Query:  text,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			s.logger.Warn("skipping hit with malformed id", "id", hit.ID)
			continue
		}
		result.Hits = append(result.Hits, SearchHit{ContentID: id, Score: hit.Score})
	}

	return result, nil
}

// buildQuery matches text in the description or the tags of a single owner's entries.
// Tag matches score higher than description matches.
func buildQuery(userID int64, text string) query.Query {
	owner := bleve.NewTermQuery(strconv.FormatInt(userID, 10))
	owner.SetField("user_id")

	desc := bleve.NewMatchQuery(text)
	desc.SetField("description")

	tags := bleve.NewMatchQuery(text)
	tags.SetField("tags")
	tags.SetBoost(2.0)

	return bleve.NewConjunctionQuery(owner, bleve.NewDisjunctionQuery(desc, tags))
}
