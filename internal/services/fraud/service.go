// Package fraud evaluates committed ledger entries against the fraud
// rules and records advisory flags for administrative review. Flags never
// block or reverse the entry that triggered them.
package fraud

import (
	"context"
	"fmt"
	"time"

	"paisa/internal/clock"
	"paisa/internal/logger"
	"paisa/internal/models"
	"paisa/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Rule thresholds, mirroring the daily scan in internal/scanner.
const (
	// HighFrequencyThreshold is the transfer count within the window at
	// which the high-frequency rule fires.
	HighFrequencyThreshold = 7

	// HighFrequencyWindow is the trailing window for the transfer count.
	HighFrequencyWindow = time.Minute

	// LargeAmountThreshold flags any single entry at or above this amount.
	LargeAmountThreshold = 10_000_000.0
)

// Service runs the synchronous fraud rules.
type Service struct {
	txns  repositories.TransactionRepository
	flags repositories.FlagRepository
	clock clock.Clock
	log   *logrus.Logger
}

func NewService(
	txns repositories.TransactionRepository,
	flags repositories.FlagRepository,
	clk clock.Clock,
	log *logrus.Logger,
) *Service {
	if txns == nil {
		panic("transaction repository is required")
	}
	if flags == nil {
		panic("flag repository is required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logger.New()
	}
	return &Service{
		txns:  txns,
		flags: flags,
		clock: clk,
		log:   log,
	}
}

// Evaluate applies both rules to a committed entry and persists each flag
// as it is produced. The rules are independent; both may fire for the
// same entry. The returned flags are whatever was successfully recorded.
func (s *Service) Evaluate(ctx context.Context, userID uint, txn *models.Transaction) ([]models.Flag, error) {
	var raised []models.Flag

	// Rule 1: seven or more transfers by the sender inside the trailing
	// window, counting the entry just created.
	if txn.Type == models.TransactionTypeTransfer {
		since := s.clock.Now().Add(-HighFrequencyWindow)
		count, err := s.txns.CountTransfersSince(ctx, userID, since)
		if err != nil {
			return raised, fmt.Errorf("high-frequency check failed: %w", err)
		}

		if count >= HighFrequencyThreshold {
			flag := models.Flag{
				UserID:        &userID,
				TransactionID: txn.ID,
				Type:          models.FlagTypeHighFrequencyTransfer,
				Message:       fmt.Sprintf("%d transfers in the last minute", count),
				CreatedAt:     s.clock.Now(),
			}
			if err := s.flags.Create(ctx, &flag); err != nil {
				return raised, fmt.Errorf("failed to record high-frequency flag: %w", err)
			}
			raised = append(raised, flag)

			s.log.WithFields(logrus.Fields{
				"user_id":        userID,
				"transaction_id": txn.ID,
				"transfer_count": count,
			}).Warn("fraud alert: high-frequency transfers")
		}
	}

	// Rule 2: single entry at or above the large-amount threshold.
	if txn.Amount >= LargeAmountThreshold {
		flag := models.Flag{
			UserID:        &userID,
			TransactionID: txn.ID,
			Type:          models.FlagTypeLargeAmount,
			Message:       fmt.Sprintf("transaction of %.0f %s exceeds threshold", txn.Amount, txn.Currency),
			CreatedAt:     s.clock.Now(),
		}
		if err := s.flags.Create(ctx, &flag); err != nil {
			return raised, fmt.Errorf("failed to record large-amount flag: %w", err)
		}
		raised = append(raised, flag)

		s.log.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": txn.ID,
			"amount":         txn.Amount,
		}).Warn("fraud alert: large transaction")
	}

	return raised, nil
}
