package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/search"
	"github.com/smartspb/mediabot/internal/store"
	"github.com/smartspb/mediabot/internal/store/sqlite"
	"github.com/smartspb/mediabot/internal/tagger"
)

type testEnv struct {
	store    *sqlite.Store
	archive  *ArchiveService
	nav      *Navigator
	search   *SearchService
	now      time.Time
	location *time.Location
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: filepath.Join(dir, "search"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	st.SetSearchIndexer(index)

	loc := time.FixedZone("MSK", 3*60*60)
	env := &testEnv{
		store:    st,
		now:      time.Date(2026, 1, 18, 12, 30, 0, 0, loc),
		location: loc,
	}
	clock := func() time.Time { return env.now }

	env.search = NewSearchService(index, st, logger)
	env.archive = NewArchiveService(st, tagger.New(tagger.Builtin()), loc, logger)
	env.archive.SetClock(clock)
	env.nav = NewNavigator(st, env.search, loc, logger)
	env.nav.SetClock(clock)
	return env
}

func photos(ids ...string) []domain.Media {
	media := make([]domain.Media, 0, len(ids))
	for _, id := range ids {
		media = append(media, domain.Media{FileID: id, Kind: domain.MediaPhoto})
	}
	return media
}

func (e *testEnv) save(t *testing.T, userID int64, desc string, files ...string) *domain.Entry {
	t.Helper()
	if len(files) == 0 {
		files = []string{"file-" + desc}
	}
	entry, err := e.archive.Save(context.Background(), userID, desc, photos(files...))
	require.NoError(t, err)
	return entry
}

func tagNames(tags []domain.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func TestSave_StampsAndTags(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	entry := env.save(t, 1, "  #Природа красивая фотография  ", "f1", "f2")

	assert.Equal(t, 1, entry.Ordinal)
	assert.Equal(t, "#Природа красивая фотография", entry.Description)
	assert.Equal(t, "18.01.2026 12:30", entry.Timestamp)
	assert.Equal(t, "2026-01-18 12:30:00", entry.ISODate)

	tags, err := env.store.ContentTags(ctx, entry.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"#природа", "фотография"}, tagNames(tags))
}

func TestSave_RequiresMedia(t *testing.T) {
	env := setupTestServices(t)

	_, err := env.archive.Save(context.Background(), 1, "пусто", nil)
	assert.ErrorIs(t, err, ErrNoMedia)
}

func TestSave_OrdinalPerUser(t *testing.T) {
	env := setupTestServices(t)

	env.save(t, 1, "a")
	env.save(t, 2, "b")
	entry := env.save(t, 1, "c")

	assert.Equal(t, 2, entry.Ordinal)
}

func TestUpdateDescription_SameTextKeepsTags(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	entry := env.save(t, 1, "#дом закат")
	before, err := env.store.ContentTags(ctx, entry.ID)
	require.NoError(t, err)

	require.NoError(t, env.archive.UpdateDescription(ctx, 1, entry.ID, "#дом закат"))

	after, err := env.store.ContentTags(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateDescription_RederivesTags(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	entry := env.save(t, 1, "#дом")
	require.NoError(t, env.archive.UpdateDescription(ctx, 1, entry.ID, "дача #лето"))

	tags, err := env.store.ContentTags(ctx, entry.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"#лето", "дача"}, tagNames(tags))

	c, err := env.store.GetContent(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "дача #лето", c.Description)
}

func TestOwnershipChecks(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	entry := env.save(t, 1, "чужое")

	assert.ErrorIs(t, env.archive.UpdateDescription(ctx, 2, entry.ID, "x"), ErrNotOwner)
	assert.ErrorIs(t, env.archive.ReplaceMedia(ctx, 2, entry.ID, photos("x")), ErrNotOwner)
	assert.ErrorIs(t, env.archive.Delete(ctx, 2, entry.ID), ErrNotOwner)
	assert.ErrorIs(t, env.archive.Delete(ctx, 1, entry.ID+100), ErrEntryNotFound)

	_, err := env.store.GetContent(ctx, entry.ID)
	assert.NoError(t, err)
}

func TestReplaceMedia(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	entry := env.save(t, 1, "старое", "f1", "f2")
	require.NoError(t, env.archive.ReplaceMedia(ctx, 1, entry.ID, photos("n1")))

	c, err := env.store.GetContent(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, c.Media, 1)
	assert.Equal(t, "n1", c.Media[0].FileID)

	assert.ErrorIs(t, env.archive.ReplaceMedia(ctx, 1, entry.ID, nil), ErrNoMedia)
}

func TestGallery_DefaultsToLatest(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "первая")
	last := env.save(t, 1, "вторая", "f1", "f2", "f3")

	view, err := env.nav.Gallery(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, last.ID, view.Entry.ID)
	assert.Equal(t, 2, view.Entry.Ordinal)
	assert.Equal(t, 2, view.Total)
	assert.True(t, view.HasOlder())
	assert.False(t, view.HasNewer())
	assert.Equal(t, 3, view.MediaCount())
}

func TestGallery_StrictBounds(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "a")
	env.save(t, 1, "b")

	_, err := env.nav.Gallery(ctx, 1, 3, 0)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = env.nav.Gallery(ctx, 1, -1, 0)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	view, err := env.nav.Gallery(ctx, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", view.Entry.Description)
	assert.False(t, view.HasOlder())
}

func TestGallery_ClampsPhoto(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "album", "f1", "f2")

	view, err := env.nav.Gallery(ctx, 1, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Photo)
	assert.Equal(t, "f2", view.Current().FileID)
	assert.True(t, view.HasPrevPhoto())
	assert.False(t, view.HasNextPhoto())

	view, err = env.nav.Gallery(ctx, 1, 1, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Photo)
}

func TestGallery_EmptyArchive(t *testing.T) {
	env := setupTestServices(t)

	view, err := env.nav.Gallery(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}

func TestGallery_OrdinalsShiftAfterDelete(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	first := env.save(t, 1, "a")
	env.save(t, 1, "b")
	require.NoError(t, env.archive.Delete(ctx, 1, first.ID))

	view, err := env.nav.Gallery(ctx, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "b", view.Entry.Description)
	assert.Equal(t, 1, view.Total)
}

func TestLastDays_TodayOnly(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.now = time.Date(2026, 1, 17, 23, 59, 0, 0, env.location)
	env.save(t, 1, "вчера")
	env.now = time.Date(2026, 1, 18, 0, 0, 0, 0, env.location)
	env.save(t, 1, "полночь")
	env.now = time.Date(2026, 1, 18, 23, 59, 0, 0, env.location)
	env.save(t, 1, "вечер")

	page, err := env.nav.List(ctx, 1, env.nav.LastDays(0), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = env.nav.List(ctx, 1, env.nav.LastDays(1), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}

func TestTagsAndTagList(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "#отпуск закат")
	env.save(t, 1, "#отпуск")
	env.save(t, 2, "#отпуск")

	userTags, err := env.nav.Tags(ctx, 1, domain.TagUser)
	require.NoError(t, err)
	require.Len(t, userTags, 1)
	assert.Equal(t, "#отпуск", userTags[0].Name)

	aiTags, err := env.nav.Tags(ctx, 1, domain.TagInferred)
	require.NoError(t, err)
	assert.Equal(t, []string{"закат"}, tagNames(aiTags))

	view, err := env.nav.TagList(ctx, 1, userTags[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Page.Total)

	_, err = env.nav.TagList(ctx, 1, 9999, 0)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTagList_ExplicitTagIncludesInferredTwin(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "#закат")
	env.save(t, 1, "закат над морем")

	userTags, err := env.nav.Tags(ctx, 1, domain.TagUser)
	require.NoError(t, err)
	require.Len(t, userTags, 1)

	view, err := env.nav.TagList(ctx, 1, userTags[0].ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Page.Total)

	aiTags, err := env.nav.Tags(ctx, 1, domain.TagInferred)
	require.NoError(t, err)
	require.Contains(t, tagNames(aiTags), "закат")
	for _, tag := range aiTags {
		if tag.Name != "закат" {
			continue
		}
		view, err = env.nav.TagList(ctx, 1, tag.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, view.Page.Total)
	}
}

func TestSearchText(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "Прогулка по лесу")
	env.save(t, 1, "Закат на даче")
	env.save(t, 2, "Закат в городе")

	page, err := env.nav.SearchText(ctx, 1, "закаты", 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, 2, page.Rows[0].Ordinal)

	page, err = env.nav.SearchText(ctx, 1, "пингвин", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestReindexAll(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()

	env.save(t, 1, "закат")
	env.save(t, 1, "лес")

	require.NoError(t, env.search.ReindexAll(ctx))

	count, err := env.search.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	ids, err := env.search.Search(ctx, 1, "закат")
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestList_UsesStoreFilters(t *testing.T) {
	env := setupTestServices(t)

	for i := range 12 {
		env.save(t, 1, "x", "f"+string(rune('a'+i)))
	}

	page, err := env.nav.List(context.Background(), 1, store.AllEntries(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Rows, 2)
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext())
}
