package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
)

type Config struct {
	// Secret key to sign access tokens. Required.
	SecretKey string

	// Hasher used during registration and login, bcrypt if not set
	Hasher PasswordHasher

	// Access and refresh token lifetimes
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Coins granted to every new account, recorded in the ledger
	SignupBonus int64
}

type Service struct {
	tokens  *TokenManager
	hasher  PasswordHasher
	storage repository.Storage
	bonus   int64
}

func NewService(cfg Config, storage repository.Storage) (*Service, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	tokens, err := NewTokenManager(TokenManagerConfig{
		SecretKey:  cfg.SecretKey,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	return &Service{
		tokens:  tokens,
		hasher:  hasher,
		storage: storage,
		bonus:   cfg.SignupBonus,
	}, nil
}

// Register creates a user with a sequence-allocated numeric id, grants the
// signup bonus (balance change plus ledger entry in the same transaction)
// and returns a fresh token pair.
func (s *Service) Register(ctx context.Context, username string, password string) (models.User, models.TokenPair, error) {
	var user models.User
	var pair models.TokenPair

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, pair, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(store repository.Storage) error {
		id, err := store.Sequence().NextID(ctx, "user")
		if err != nil {
			return err
		}

		user, err = store.User().CreateUser(ctx, repository.CreateUserParams{
			ID:             id,
			Username:       username,
			HashedPassword: hash,
			Role:           models.RoleStudent,
		})
		if err != nil {
			return err
		}

		if s.bonus <= 0 {
			return nil
		}

		user, err = store.User().AdjustCoins(ctx, user.ID, s.bonus)
		if err != nil {
			return err
		}

		referenceType := models.ReferenceSignupBonus
		_, err = store.Ledger().Record(ctx, models.LedgerEntry{
			UserID:        user.ID,
			Type:          models.EntryTypeCredit,
			Amount:        s.bonus,
			Reason:        "Welcome bonus",
			ReferenceType: &referenceType,
		})
		return err
	})
	if err != nil {
		return user, pair, fmt.Errorf("can't register user. Err: %w", err)
	}

	pair, err = s.tokens.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("can't generate tokens. Err: %w", err)
	}

	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, username string, password string) (models.User, models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.storage.User().GetUserByUsername(ctx, username)
	if err != nil {
		return user, pair, fmt.Errorf("can't login. Err: %w", err)
	}

	// Wrong password reported the same way as unknown user
	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return user, pair, fmt.Errorf("can't login. Err: %w", apperrors.ErrUserNotFound)
	}

	pair, err = s.tokens.GeneratePair(ctx, user)
	if err != nil {
		return user, pair, fmt.Errorf("can't generate tokens. Err: %w", err)
	}

	return user, pair, nil
}

// RefreshPair exchanges a valid unused refresh token for a new pair
func (s *Service) RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	token, err := s.tokens.UseRefresh(ctx, refresh)
	if err != nil {
		return pair, err
	}

	user, err := s.storage.User().GetUserByID(ctx, token.UserID)
	if err != nil {
		return pair, fmt.Errorf("can't refresh tokens. Err: %w", err)
	}

	return s.tokens.GeneratePair(ctx, user)
}

// Auth authenticates a request by its bearer access token
func (s *Service) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return user, fmt.Errorf("no bearer token in request")
	}

	userID, err := s.tokens.ParseAccess(ctx, token)
	if err != nil {
		return user, err
	}

	return s.storage.User().GetUserByID(ctx, userID)
}
