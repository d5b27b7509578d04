package ports

import (
	"context"

	"bookmarksapi/pkg/core/domain"
)

// UserRepository defines storage operations for users.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// BookmarkRepository defines storage operations for bookmarks.
// Owner-scoped methods take the owning user id and must not match rows
// belonging to other users. Lookups return (nil, nil) when no row matches.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *domain.Bookmark) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Bookmark, error)
	GetByShortCode(ctx context.Context, code string) (*domain.Bookmark, error)
	GetByURL(ctx context.Context, url string) (*domain.Bookmark, error)
	Update(ctx context.Context, bookmark *domain.Bookmark) error
	Delete(ctx context.Context, id, userID int64) (bool, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]domain.Bookmark, error)
	Count(ctx context.Context, userID int64) (int64, error)
	Stats(ctx context.Context, userID int64) ([]domain.BookmarkStats, error)

	// IncrementVisits applies visits = visits + 1 as a single statement.
	IncrementVisits(ctx context.Context, id int64) error

	Dump(ctx context.Context) ([]domain.Bookmark, error) // For migration
}

// AuthService defines the identity operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)
	// LoginExternal is the OAuth path: the identity provider already verified
	// the email, so the user is looked up or created without a password check.
	LoginExternal(ctx context.Context, email string) (*domain.User, *domain.TokenPair, error)
	Refresh(refreshToken string) (string, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ValidateAccessToken(token string) (int64, error)
}

// BookmarkService defines the business logic operations.
type BookmarkService interface {
	Create(ctx context.Context, userID int64, url, body string) (*domain.Bookmark, error)
	List(ctx context.Context, userID int64, page, perPage int) ([]domain.Bookmark, *domain.Pagination, error)
	Get(ctx context.Context, userID, id int64) (*domain.Bookmark, error)
	Update(ctx context.Context, userID, id int64, url, body string) (*domain.Bookmark, error)
	Delete(ctx context.Context, userID, id int64) error
	Stats(ctx context.Context, userID int64) ([]domain.BookmarkStats, error)

	// Resolve maps a short code to its target URL, counting the visit.
	Resolve(ctx context.Context, code string) (string, error)
}
