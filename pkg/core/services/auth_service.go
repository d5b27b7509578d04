package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"bookmarksapi/pkg/core/domain"
	"bookmarksapi/pkg/ports"
)

const minPasswordLength = 6

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims carry the authenticated user id plus the token type, so refresh
// tokens cannot be replayed against protected routes.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
}

type AuthService struct {
	users      ports.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users ports.UserRepository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password is too short: %w", domain.ErrValidation)
	}
	if username == "" || strings.ContainsFunc(username, unicode.IsSpace) {
		return nil, fmt.Errorf("username should have no spaces: %w", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email is not valid: %w", domain.ErrValidation)
	}

	// Pre-checks give precise conflict messages; the unique indexes on
	// users.username and users.email remain the authority under races.
	if existing, err := s.users.GetUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if existing, err := s.users.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("username already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("wrong credentials: %w", domain.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("wrong credentials: %w", domain.ErrInvalidCredentials)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LoginExternal signs in a user whose email was verified by an external
// identity provider. Unknown emails get an account created on the fly; its
// password hash stays empty, so password login for it fails closed.
func (s *AuthService) LoginExternal(ctx context.Context, email string) (*domain.User, *domain.TokenPair, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, fmt.Errorf("email is not valid: %w", domain.ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user, err = s.createExternalUser(ctx, email)
		if err != nil {
			return nil, nil, err
		}
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) createExternalUser(ctx context.Context, email string) (*domain.User, error) {
	base := strings.SplitN(email, "@", 2)[0]
	now := time.Now().UTC()

	username := base
	for attempt := 0; attempt < 5; attempt++ {
		user := &domain.User{
			Username:  username,
			Email:     email,
			Password:  "",
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := s.users.CreateUser(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		suffix, err := generateShortCode(3)
		if err != nil {
			return nil, err
		}
		username = base + "-" + suffix
	}
	return nil, fmt.Errorf("could not allocate a username for %s: %w", email, domain.ErrConflict)
}

func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.issueToken(claims.UserID, tokenTypeAccess, s.accessTTL)
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

// ValidateAccessToken checks the token and extracts the caller's user id.
// Refresh tokens are rejected here.
func (s *AuthService) ValidateAccessToken(token string) (int64, error) {
	claims, err := s.parseToken(token, tokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (s *AuthService) issuePair(userID int64) (*domain.TokenPair, error) {
	access, err := s.issueToken(userID, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueToken(userID, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) issueToken(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    userID,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) parseToken(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrInvalidCredentials)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("wrong token type: %w", domain.ErrInvalidCredentials)
	}
	return claims, nil
}

var _ ports.AuthService = (*AuthService)(nil)
