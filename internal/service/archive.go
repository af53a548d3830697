// Package service implements the archive operations behind the bot's handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartspb/mediabot/internal/domain"
	apperrors "github.com/smartspb/mediabot/internal/errors"
	"github.com/smartspb/mediabot/internal/store"
	"github.com/smartspb/mediabot/internal/tagger"
)

// Service errors.
var (
	ErrEntryNotFound = apperrors.NotFound("entry not found")
	ErrTagNotFound   = apperrors.NotFound("tag not found")
	ErrNotOwner      = apperrors.Forbidden("entry belongs to another user")
	ErrNoMedia       = apperrors.Validation("entry needs at least one photo or video")
)

// TagExtractor derives tags from a description.
type TagExtractor interface {
	Extract(text string) tagger.Result
}

// ArchiveService creates, edits, and deletes archive entries.
type ArchiveService struct {
	store    store.Store
	tags     TagExtractor
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewArchiveService creates an archive service. Entries are stamped in location.
func NewArchiveService(store store.Store, tags TagExtractor, location *time.Location, logger *slog.Logger) *ArchiveService {
	if location == nil {
		location = time.Local
	}
	return &ArchiveService{
		store:    store,
		tags:     tags,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *ArchiveService) SetClock(now func() time.Time) {
	s.now = now
}

// Save stores a new entry with its media and derived tags and returns it
// with its ordinal.
func (s *ArchiveService) Save(ctx context.Context, userID int64, description string, media []domain.Media) (*domain.Entry, error) {
	if len(media) == 0 {
		return nil, ErrNoMedia
	}

	description = strings.TrimSpace(description)
	c := &domain.Content{
		UserID:      userID,
		Description: description,
		Media:       media,
	}
	c.Stamp(s.now().In(s.location))

	refs := s.tags.Extract(description).Refs()
	if err := s.store.CreateContent(ctx, c, refs); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	ordinal, err := s.store.Ordinal(ctx, userID, c.ID)
	if err != nil {
		return nil, fmt.Errorf("entry ordinal: %w", err)
	}

	s.logger.Info("entry saved",
		"user_id", userID,
		"content_id", c.ID,
		"media", len(media),
		"tags", len(refs),
	)
	return &domain.Entry{Content: *c, Ordinal: ordinal}, nil
}

// UpdateDescription replaces an entry's description and re-derives its tags.
func (s *ArchiveService) UpdateDescription(ctx context.Context, userID, contentID int64, description string) error {
	if _, err := s.Owned(ctx, userID, contentID); err != nil {
		return err
	}

	description = strings.TrimSpace(description)
	refs := s.tags.Extract(description).Refs()
	if err := s.store.UpdateDescription(ctx, contentID, description, refs); err != nil {
		return fmt.Errorf("update description: %w", err)
	}

	s.logger.Info("description updated", "user_id", userID, "content_id", contentID, "tags", len(refs))
	return nil
}

// ReplaceMedia swaps an entry's media set.
func (s *ArchiveService) ReplaceMedia(ctx context.Context, userID, contentID int64, media []domain.Media) error {
	if len(media) == 0 {
		return ErrNoMedia
	}
	if _, err := s.Owned(ctx, userID, contentID); err != nil {
		return err
	}

	if err := s.store.ReplaceMedia(ctx, contentID, media); err != nil {
		return fmt.Errorf("replace media: %w", err)
	}

	s.logger.Info("media replaced", "user_id", userID, "content_id", contentID, "media", len(media))
	return nil
}

// Delete removes an entry together with its media and tag associations.
func (s *ArchiveService) Delete(ctx context.Context, userID, contentID int64) error {
	if _, err := s.Owned(ctx, userID, contentID); err != nil {
		return err
	}

	if err := s.store.DeleteContent(ctx, contentID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.logger.Info("entry deleted", "user_id", userID, "content_id", contentID)
	return nil
}

// Owned loads an entry and checks it belongs to userID.
func (s *ArchiveService) Owned(ctx context.Context, userID, contentID int64) (*domain.Content, error) {
	c, err := s.store.GetContent(ctx, contentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if c.UserID != userID {
		s.logger.Warn("entry access denied", "user_id", userID, "content_id", contentID, "owner_id", c.UserID)
		return nil, ErrNotOwner
	}
	return c, nil
}
