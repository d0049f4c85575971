package auth

import (
	"context"
	"crypto/sha256"
	"strings"

	"github.com/google/uuid"
	"github.com/serdarakin/shoply-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	tokens   *TokenManager
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, tokens *TokenManager) Service {
	return &service{userRepo: userRepo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.SignAccess(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.SignRefresh(u.ID.String())
	if err != nil {
		return nil, err
	}

	// Refresh token rotation: only the bcrypt hash of the latest refresh
	// token is stored, so older cookies stop working on next login. The
	// token is pre-hashed because signed JWTs exceed bcrypt's 72-byte limit.
	refreshHash, err := bcrypt.GenerateFromPassword(tokenDigest(refresh), 10)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, u.ID.String(), string(refreshHash)); err != nil {
		return nil, err
	}

	return &Session{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	sub, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	u, err := s.userRepo.GetUserByID(ctx, sub)
	if err != nil || u.RefreshTokenHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.RefreshTokenHash), tokenDigest(refreshToken)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.SignAccess(u.ID.String(), string(u.Role))
}

func tokenDigest(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	sub, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.userRepo.UpdateRefreshTokenHash(ctx, sub, "")
}
