// Package scanner implements the daily fraud scan: a scheduled re-scan of
// the trailing day of ledger entries that flags large transactions
// independently of the synchronous checks. The redundancy with the
// fraud service's large-amount rule is intentional; flags are not
// deduplicated.
package scanner

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

const (
	// LargeAmountThreshold matches the synchronous large-amount rule.
	LargeAmountThreshold = 10_000_000.0

	// ScanWindow is the trailing window each run covers.
	ScanWindow = 24 * time.Hour
)

// Scanner re-scans recent ledger entries for large amounts.
type Scanner struct {
	txns  repositories.TransactionRepository
	flags repositories.FlagRepository
	clock clock.Clock
	log   *logrus.Logger
}

func NewScanner(
	txns repositories.TransactionRepository,
	flags repositories.FlagRepository,
	clk clock.Clock,
	log *logrus.Logger,
) *Scanner {
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
	return &Scanner{
		txns:  txns,
		flags: flags,
		clock: clk,
		log:   log,
	}
}

// RunOnce executes one scan cycle. A cycle that errors partway returns
// the error and is abandoned; the next scheduled cycle starts clean.
func (s *Scanner) RunOnce(ctx context.Context) error {
	since := s.clock.Now().Add(-ScanWindow)
	txns, err := s.txns.FindCreatedSince(ctx, since)
	if err != nil {
		return fmt.Errorf("scan cycle failed: %w", err)
	}

	flagged := 0
	for _, txn := range txns {
		if txn.Amount < LargeAmountThreshold {
			continue
		}

		flag := models.Flag{
			UserID:        txn.SenderID,
			TransactionID: txn.ID,
			Type:          models.FlagTypeDailyScanLargeAmount,
			Message:       fmt.Sprintf("large transaction flagged: %.0f %s", txn.Amount, txn.Currency),
			CreatedAt:     s.clock.Now(),
		}
		if err := s.flags.Create(ctx, &flag); err != nil {
			return fmt.Errorf("scan cycle failed: %w", err)
		}
		flagged++

		s.log.WithFields(logrus.Fields{
			"transaction_id": txn.ID,
			"amount":         txn.Amount,
		}).Warn("daily scan: large transaction flagged")
	}

	s.log.WithFields(logrus.Fields{
		"scanned": len(txns),
		"flagged": flagged,
	}).Info("daily fraud scan finished")
	return nil
}
