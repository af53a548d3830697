package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
	apperrors "github.com/smartspb/mediabot/internal/errors"
	"github.com/smartspb/mediabot/internal/store"
)

var base = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

type recordingIndexer struct {
	indexed map[int64][]string
	deleted []int64
}

func (r *recordingIndexer) IndexContent(_ context.Context, c *domain.Content, tags []string) error {
	if r.indexed == nil {
		r.indexed = make(map[int64][]string)
	}
	r.indexed[c.ID] = tags
	return nil
}

func (r *recordingIndexer) DeleteContent(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func tagNames(tags []domain.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

func TestCreateAndGetContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestContent(42, "Закат #море", base, "f1", "f2")
	c.Media[1].Kind = domain.MediaVideo
	tags := []domain.TagRef{
		{Name: "#море", Origin: domain.TagUser},
		{Name: "закат", Origin: domain.TagInferred},
	}

	if err := s.CreateContent(ctx, c, tags); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("expected ID to be set")
	}
	if c.Media[0].ID == 0 || c.Media[0].ContentID != c.ID {
		t.Errorf("media ids not populated: %+v", c.Media[0])
	}

	got, err := s.GetContent(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.UserID != 42 || got.Description != "Закат #море" {
		t.Errorf("got %+v", got)
	}
	if got.Timestamp != "10.01.2026 12:00" || got.ISODate != "2026-01-10 12:00:00" {
		t.Errorf("timestamps: %q %q", got.Timestamp, got.ISODate)
	}
	if len(got.Media) != 2 || got.Media[0].FileID != "f1" || got.Media[1].Kind != domain.MediaVideo {
		t.Errorf("media: %+v", got.Media)
	}

	linked, err := s.ContentTags(ctx, c.ID)
	if err != nil {
		t.Fatalf("ContentTags: %v", err)
	}
	if want := []string{"#море", "закат"}; !slices.Equal(tagNames(linked), want) {
		t.Errorf("tags: got %v, want %v", tagNames(linked), want)
	}
}

func TestCreateContent_RequiresMedia(t *testing.T) {
	s := newTestStore(t)

	c := &domain.Content{UserID: 1}
	c.Stamp(base)

	err := s.CreateContent(context.Background(), c, nil)
	if !errors.Is(err, store.ErrEmptyMedia) {
		t.Fatalf("expected ErrEmptyMedia, got %v", err)
	}
	if n, _ := s.CountContent(context.Background(), 1); n != 0 {
		t.Errorf("expected no rows, got %d", n)
	}
}

func TestCreateContent_RollsBackOnBadMedia(t *testing.T) {
	s := newTestStore(t)

	c := makeTestContent(1, "x", base, "ok")
	c.Media = append(c.Media, domain.Media{FileID: "bad", Kind: "audio"})

	if err := s.CreateContent(context.Background(), c, nil); err == nil {
		t.Fatal("expected error for unsupported media kind")
	}
	if n, _ := s.CountContent(context.Background(), 1); n != 0 {
		t.Errorf("partial entry left behind: %d rows", n)
	}
}

func TestGetContent_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetContent(context.Background(), 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Error("store errors should match the domain code")
	}
}

func TestUpdateDescription_ReplacesTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestContent(1, "old", base)
	if err := s.CreateContent(ctx, c, []domain.TagRef{{Name: "#old", Origin: domain.TagUser}}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	newTags := []domain.TagRef{{Name: "#new", Origin: domain.TagUser}, {Name: "пляж", Origin: domain.TagInferred}}
	if err := s.UpdateDescription(ctx, c.ID, "new #new пляж", newTags); err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}

	got, _ := s.GetContent(ctx, c.ID)
	if got.Description != "new #new пляж" {
		t.Errorf("Description: %q", got.Description)
	}
	linked, _ := s.ContentTags(ctx, c.ID)
	if want := []string{"#new", "пляж"}; !slices.Equal(tagNames(linked), want) {
		t.Errorf("tags: got %v, want %v", tagNames(linked), want)
	}

	// Same description again leaves the association set unchanged.
	if err := s.UpdateDescription(ctx, c.ID, "new #new пляж", newTags); err != nil {
		t.Fatalf("UpdateDescription (repeat): %v", err)
	}
	again, _ := s.ContentTags(ctx, c.ID)
	if !slices.Equal(tagNames(again), tagNames(linked)) {
		t.Errorf("tags changed on identical save: %v vs %v", tagNames(again), tagNames(linked))
	}

	// The orphaned tag row persists.
	usage, err := s.TagUsage(ctx)
	if err != nil {
		t.Fatalf("TagUsage: %v", err)
	}
	found := false
	for _, u := range usage {
		if u.Name == "#old" {
			found = true
			if u.Entries != 0 {
				t.Errorf("#old should be unused, got %d", u.Entries)
			}
		}
	}
	if !found {
		t.Error("orphan tag #old was removed")
	}
}

func TestUpdateDescription_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateDescription(context.Background(), 5, "x", nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDescription_ClearsToEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestContent(1, "text", base)
	if err := s.CreateContent(ctx, c, nil); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if err := s.UpdateDescription(ctx, c.ID, "", nil); err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}
	got, _ := s.GetContent(ctx, c.ID)
	if got.Description != "" {
		t.Errorf("expected empty description, got %q", got.Description)
	}
}

func TestExistingTagKeepsOrigin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestContent(1, "", base)
	if err := s.CreateContent(ctx, a, []domain.TagRef{{Name: "2024", Origin: domain.TagInferred}}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	b := makeTestContent(2, "", base)
	if err := s.CreateContent(ctx, b, []domain.TagRef{{Name: "2024", Origin: domain.TagUser}}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	linked, _ := s.ContentTags(ctx, b.ID)
	if len(linked) != 1 || linked[0].Origin != domain.TagInferred {
		t.Errorf("expected shared tag with original origin, got %+v", linked)
	}
}

func TestReplaceMedia(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestContent(1, "x", base, "a", "b", "c")
	if err := s.CreateContent(ctx, c, nil); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	replacement := []domain.Media{{FileID: "v1", Kind: domain.MediaVideo}}
	if err := s.ReplaceMedia(ctx, c.ID, replacement); err != nil {
		t.Fatalf("ReplaceMedia: %v", err)
	}

	got, _ := s.GetContent(ctx, c.ID)
	if len(got.Media) != 1 || got.Media[0].FileID != "v1" || got.Media[0].Kind != domain.MediaVideo {
		t.Errorf("media after replace: %+v", got.Media)
	}

	var orphans int
	s.db.QueryRow(`SELECT COUNT(*) FROM media WHERE file_id IN ('a','b','c')`).Scan(&orphans)
	if orphans != 0 {
		t.Errorf("old media rows remain: %d", orphans)
	}
}

func TestReplaceMedia_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceMedia(ctx, 1, nil); !errors.Is(err, store.ErrEmptyMedia) {
		t.Errorf("expected ErrEmptyMedia, got %v", err)
	}
	err := s.ReplaceMedia(ctx, 77, []domain.Media{{FileID: "x", Kind: domain.MediaPhoto}})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteContent_Cascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	idx := &recordingIndexer{}
	s.SetSearchIndexer(idx)

	c := makeTestContent(1, "#tag", base, "m1", "m2")
	if err := s.CreateContent(ctx, c, []domain.TagRef{{Name: "#tag", Origin: domain.TagUser}}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	if err := s.DeleteContent(ctx, c.ID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}

	var media, links, tags int
	s.db.QueryRow(`SELECT COUNT(*) FROM media WHERE content_id = ?`, c.ID).Scan(&media)
	s.db.QueryRow(`SELECT COUNT(*) FROM content_tags WHERE content_id = ?`, c.ID).Scan(&links)
	s.db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&tags)
	if media != 0 || links != 0 {
		t.Errorf("cascade failed: media=%d links=%d", media, links)
	}
	if tags != 1 {
		t.Errorf("tags should persist, got %d", tags)
	}
	if !slices.Equal(idx.deleted, []int64{c.ID}) {
		t.Errorf("indexer deletes: %v", idx.deleted)
	}

	if err := s.DeleteContent(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSearchIndexerNotified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	idx := &recordingIndexer{}
	s.SetSearchIndexer(idx)

	c := makeTestContent(1, "first", base)
	if err := s.CreateContent(ctx, c, []domain.TagRef{{Name: "#a", Origin: domain.TagUser}}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if !slices.Equal(idx.indexed[c.ID], []string{"#a"}) {
		t.Errorf("indexed tags after create: %v", idx.indexed[c.ID])
	}

	if err := s.UpdateDescription(ctx, c.ID, "second", []domain.TagRef{{Name: "#b", Origin: domain.TagUser}}); err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}
	if !slices.Equal(idx.indexed[c.ID], []string{"#b"}) {
		t.Errorf("indexed tags after update: %v", idx.indexed[c.ID])
	}
}

func TestForEachContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestContent(1, "a", base)
	s.CreateContent(ctx, a, []domain.TagRef{{Name: "#x", Origin: domain.TagUser}, {Name: "y", Origin: domain.TagInferred}})
	b := makeTestContent(2, "b", base.Add(time.Hour))
	s.CreateContent(ctx, b, nil)

	var seen []int64
	tagsByID := map[int64][]string{}
	err := s.ForEachContent(ctx, func(c *domain.Content, tags []string) error {
		seen = append(seen, c.ID)
		tagsByID[c.ID] = tags
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachContent: %v", err)
	}
	if !slices.Equal(seen, []int64{a.ID, b.ID}) {
		t.Errorf("order: %v", seen)
	}
	got := tagsByID[a.ID]
	slices.Sort(got)
	if !slices.Equal(got, []string{"#x", "y"}) {
		t.Errorf("tags of a: %v", got)
	}
	if len(tagsByID[b.ID]) != 0 {
		t.Errorf("tags of b: %v", tagsByID[b.ID])
	}
}
