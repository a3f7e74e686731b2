package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/avatars"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/ratelimit"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProfileUpdate lists the profile changes requested by the user. Nil
// pointers leave the field untouched; NewPassword requires CurrentPassword.
type ProfileUpdate struct {
	Name            *string
	Email           *string
	Image           *string
	CurrentPassword string
	NewPassword     string
}

// AvatarPresigner issues upload URLs for profile images.
type AvatarPresigner interface {
	PresignUpload(ctx context.Context, userID string) (*avatars.Upload, error)
}

// UserService covers accounts: credential and external sign-in, refresh
// token rotation, profile maintenance and account deletion.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	signInLimiter                *ratelimit.KeyedLimiter
	avatars                      AvatarPresigner
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		signInLimiter:                ratelimit.NewPerMinute(cfg.SignInAttemptsPerMinute),
		avatars: avatars.NewPresigner(avatars.Settings{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}),
	}
}

// SignIn checks credentials. An unknown email registers a new active user
// with that password; a known one must match its stored hash.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, common.NewValidationError("password", "password is required")
	}
	if !s.signInLimiter.Allow(email) {
		return nil, common.ErrRateLimited
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		user, err = s.register(ctx, email, password)
	}
	if err != nil {
		return nil, storageError(err)
	}

	if !user.IsActive || user.PasswordHash == "" {
		return nil, common.ErrorUnauthorized
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

func (s *UserService) register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         localPart(email),
		IsActive:     true,
		Roles:        []string{common.DefaultRole},
	})
	if dbx.IsUniqueViolation(err) {
		// registered concurrently; verify against that row instead
		return s.repomanager.Users(s.db).GetByEmail(ctx, email)
	}
	return user, err
}

// SignInExternal signs in a user already authenticated by provider. The
// first sign-in creates a password-less account tagged with the provider.
//
// No RPC exposes it: the caller is a provider callback handler (the OAuth
// redirect endpoint) that has already exchanged the code and verified the
// provider's ID token, and passes the verified email and display data here.
func (s *UserService) SignInExternal(ctx context.Context, provider, email, name, image string) (*TokenPair, error) {
	provider, err := requireField("provider", provider)
	if err != nil {
		return nil, err
	}
	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		if strings.TrimSpace(name) == "" {
			name = localPart(email)
		}
		user, err = repo.Create(ctx, &models.User{
			Email:        email,
			Name:         name,
			Image:        image,
			IsActive:     true,
			Roles:        []string{common.DefaultRole},
			AuthProvider: provider,
		})
		if err != nil {
			return nil, storageError(err)
		}
	case err != nil:
		return nil, storageError(err)
	}

	// an account is bound to the provider that created it
	if !user.IsActive || user.AuthProvider != provider {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired;
// tokens of deleted or deactivated users yield ErrorUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}

	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, storageError(err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if errors.Is(err, common.ErrorNotFound) || (err == nil && !user.IsActive) {
			return common.ErrorUnauthorized
		}
		if err != nil {
			return err
		}

		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// rotated by a concurrent request
				return common.ErrInvalidToken
			}
			return err
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, storageError(err)
	}
	return pair, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}
	return user, nil
}

// UpdateProfile applies upd and returns the stored profile. A request that
// changes nothing returns the profile as is without writing.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		var err error
		user, err = repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		changed, err := s.applyProfileUpdate(ctx, repo.GetByEmail, user, upd)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return repo.Update(ctx, user)
	})
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.NewConflictError(common.ConflictDuplicate, "email is already in use")
		}
		return nil, storageError(err)
	}
	return user, nil
}

func (s *UserService) applyProfileUpdate(
	ctx context.Context,
	byEmail func(context.Context, string) (*models.User, error),
	user *models.User,
	upd ProfileUpdate,
) (bool, error) {
	changed := false

	if upd.Name != nil {
		name, err := requireField("name", *upd.Name)
		if err != nil {
			return false, err
		}
		if name != user.Name {
			user.Name = name
			changed = true
		}
	}

	if upd.Image != nil {
		if image := strings.TrimSpace(*upd.Image); image != user.Image {
			user.Image = image
			changed = true
		}
	}

	if upd.Email != nil {
		email, err := normalizeEmail(*upd.Email)
		if err != nil {
			return false, err
		}
		if email != user.Email {
			other, err := byEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return false, common.NewConflictError(common.ConflictDuplicate, "email is already in use")
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return false, err
			}
			user.Email = email
			changed = true
		}
	}

	if upd.NewPassword != "" {
		if user.PasswordHash == "" {
			return false, common.NewValidationError("new_password", "password sign-in is not enabled for this account")
		}
		if upd.CurrentPassword == "" {
			return false, common.NewValidationError("current_password", "current password is required")
		}
		ok, err := auth.CheckPassword(user.PasswordHash, upd.CurrentPassword)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, common.NewValidationError("current_password", "current password is incorrect")
		}
		hash, err := auth.HashPassword(upd.NewPassword)
		if err != nil {
			return false, err
		}
		user.PasswordHash = hash
		changed = true
	}

	return changed, nil
}

// DeleteAccount removes the user and, by cascade, everything it owns.
// Password accounts must confirm with their password.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	if err := requireOwner(userID); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return storageError(err)
	}

	if !user.IsExternal() {
		if password == "" {
			return common.NewValidationError("password", "password is required")
		}
		ok, err := auth.CheckPassword(user.PasswordHash, password)
		if err != nil || !ok {
			return common.NewValidationError("password", "password is incorrect")
		}
	}

	if err := repo.Delete(ctx, userID); err != nil {
		return storageError(err)
	}
	return nil
}

// AvatarUploadURL returns a presigned upload for a new profile image.
func (s *UserService) AvatarUploadURL(ctx context.Context, userID string) (*avatars.Upload, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	up, err := s.avatars.PresignUpload(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return up, nil
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, storageError(err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", common.NewValidationError("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.NewValidationError("email", "email is invalid")
	}
	return email, nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
