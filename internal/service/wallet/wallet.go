package wallet

import (
	"context"
	"fmt"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
)

type Config struct {
	// DisableTransferLedger turns off ledger entries for transfers.
	// By default every transfer writes a debit entry for the sender and a
	// credit entry for the receiver in the same transaction as the balance
	// moves.
	DisableTransferLedger bool
}

// Service is the only writer of user coin balances besides the enrollment
// service. Everything else reads balances through it.
type Service struct {
	storage         repository.Storage
	recordTransfers bool
}

func NewService(cfg Config, storage repository.Storage) *Service {
	return &Service{
		storage:         storage,
		recordTransfers: !cfg.DisableTransferLedger,
	}
}

func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("can't get user balance. Err: %w", err)
	}

	return user.Coins, nil
}

// AdjustBalance credits (positive amount) or debits (negative amount) a user
// and records the matching ledger entry in the same transaction.
func (s *Service) AdjustBalance(ctx context.Context, userID int64, amount int64, reason string) (models.User, error) {
	var user models.User

	if amount == 0 {
		return user, apperrors.ErrZeroAmount
	}

	if reason == "" {
		reason = "Balance adjustment"
	}

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		var err error
		user, err = store.User().AdjustCoins(ctx, userID, amount)
		if err != nil {
			return err
		}

		entryType := models.EntryTypeCredit
		magnitude := amount
		if amount < 0 {
			entryType = models.EntryTypeDebit
			magnitude = -amount
		}

		referenceType := models.ReferenceAdminAdjustment
		_, err = store.Ledger().Record(ctx, models.LedgerEntry{
			UserID:        userID,
			Type:          entryType,
			Amount:        magnitude,
			Reason:        reason,
			ReferenceType: &referenceType,
		})
		return err
	})
	if err != nil {
		return user, fmt.Errorf("can't adjust balance. Err: %w", err)
	}

	return user, nil
}

// Transfer moves amount coins between two users atomically: both balance
// changes (and ledger entries, unless disabled) commit or none do.
// Returns the sender's new balance.
func (s *Service) Transfer(ctx context.Context, fromID int64, toID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.ErrNonPositiveAmount
	}
	if fromID == toID {
		return 0, apperrors.ErrSelfTransfer
	}

	var fromBalance int64

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		sender, err := store.User().AdjustCoins(ctx, fromID, -amount)
		if err != nil {
			return err
		}
		fromBalance = sender.Coins

		if _, err := store.User().AdjustCoins(ctx, toID, amount); err != nil {
			return err
		}

		if !s.recordTransfers {
			return nil
		}

		referenceType := models.ReferenceTransfer
		entries := []models.LedgerEntry{
			{
				UserID:        fromID,
				Type:          models.EntryTypeDebit,
				Amount:        amount,
				Reason:        fmt.Sprintf("Transfer to user %d", toID),
				ReferenceID:   &toID,
				ReferenceType: &referenceType,
				Metadata:      map[string]any{"from": fromID, "to": toID},
			},
			{
				UserID:        toID,
				Type:          models.EntryTypeCredit,
				Amount:        amount,
				Reason:        fmt.Sprintf("Transfer from user %d", fromID),
				ReferenceID:   &fromID,
				ReferenceType: &referenceType,
				Metadata:      map[string]any{"from": fromID, "to": toID},
			},
		}
		for _, entry := range entries {
			if _, err := store.Ledger().Record(ctx, entry); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("can't transfer coins. Err: %w", err)
	}

	return fromBalance, nil
}

// ListTransactions reads the ledger newest first with the filter applied.
func (s *Service) ListTransactions(ctx context.Context, filter repository.LedgerFilter) ([]models.LedgerEntry, int64, error) {
	entries, total, err := s.storage.Ledger().List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("can't list transactions. Err: %w", err)
	}

	return entries, total, nil
}
