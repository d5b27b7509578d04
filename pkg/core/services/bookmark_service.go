package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"bookmarksapi/pkg/core/domain"
	"bookmarksapi/pkg/ports"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	shortCodeLength = 3

	// maxCodeAttempts bounds the collision retry loop. With 62^3 possible
	// codes the cap only trips when the space is nearly full.
	maxCodeAttempts = 32
)

type BookmarkService struct {
	repo ports.BookmarkRepository
}

func NewBookmarkService(repo ports.BookmarkRepository) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// Create validates the URL, rejects duplicates across all users, and inserts
// the bookmark under a freshly generated short code. The pre-check on the
// code is advisory only: the unique index decides, and losing the insert race
// just triggers another draw.
func (s *BookmarkService) Create(ctx context.Context, userID int64, rawURL, body string) (*domain.Bookmark, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	// Duplicate URLs are rejected store-wide, not per owner.
	existing, err := s.repo.GetByURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("url already exists: %w", domain.ErrConflict)
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateShortCode(shortCodeLength)
		if err != nil {
			return nil, err
		}

		taken, err := s.repo.GetByShortCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			continue
		}

		now := time.Now().UTC()
		bookmark := &domain.Bookmark{
			UserID:    userID,
			URL:       rawURL,
			Body:      body,
			ShortURL:  code,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err = s.repo.Create(ctx, bookmark)
		if errors.Is(err, domain.ErrConflict) {
			// Concurrent creator took the code between check and insert.
			continue
		}
		if err != nil {
			return nil, err
		}
		return bookmark, nil
	}

	return nil, fmt.Errorf("after %d attempts: %w", maxCodeAttempts, domain.ErrShortCodeExhausted)
}

func (s *BookmarkService) List(ctx context.Context, userID int64, page, perPage int) ([]domain.Bookmark, *domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 5
	}
	offset := (page - 1) * perPage

	bookmarks, err := s.repo.List(ctx, userID, perPage, offset)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	meta := &domain.Pagination{
		Page:       page,
		Pages:      pages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < pages,
	}
	if meta.HasPrev {
		meta.PrevPage = page - 1
	}
	if meta.HasNext {
		meta.NextPage = page + 1
	}

	return bookmarks, meta, nil
}

func (s *BookmarkService) Get(ctx context.Context, userID, id int64) (*domain.Bookmark, error) {
	return s.ownedBookmark(ctx, userID, id)
}

// Update validates the new URL before touching the row; an invalid URL
// rejects the whole edit.
func (s *BookmarkService) Update(ctx context.Context, userID, id int64, rawURL, body string) (*domain.Bookmark, error) {
	bookmark, err := s.ownedBookmark(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	bookmark.URL = rawURL
	bookmark.Body = body
	bookmark.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, bookmark); err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *BookmarkService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *BookmarkService) Stats(ctx context.Context, userID int64) ([]domain.BookmarkStats, error) {
	return s.repo.Stats(ctx, userID)
}

// Resolve looks up a short code regardless of owner, counts the visit and
// returns the target URL. This is the one unauthenticated bookmark path.
func (s *BookmarkService) Resolve(ctx context.Context, code string) (string, error) {
	bookmark, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	if bookmark == nil {
		return "", fmt.Errorf("short url %q: %w", code, domain.ErrNotFound)
	}

	if err := s.repo.IncrementVisits(ctx, bookmark.ID); err != nil {
		return "", err
	}
	return bookmark.URL, nil
}

// ownedBookmark is the single authorization predicate behind every
// single-item operation: a bookmark that does not exist and a bookmark owned
// by someone else both come back as ErrNotFound.
func (s *BookmarkService) ownedBookmark(ctx context.Context, userID, id int64) (*domain.Bookmark, error) {
	bookmark, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if bookmark == nil {
		return nil, fmt.Errorf("bookmark %d: %w", id, domain.ErrNotFound)
	}
	return bookmark, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter a valid url: %w", domain.ErrValidation)
	}
	return nil
}

func generateShortCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

var _ ports.BookmarkService = (*BookmarkService)(nil)
