package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"paisa/internal/clock"
	"paisa/internal/logger"
	"paisa/internal/models"
	"paisa/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type service struct {
	users  repositories.UserRepository
	txns   repositories.TransactionRepository
	runner repositories.TxRunner
	cache  CacheOperator
	fraud  FraudChecker
	clock  clock.Clock
	log    *logrus.Logger
	config Config
}

// NewService creates a new ledger service. The fraud checker is optional;
// when nil, no synchronous checks run.
func NewService(
	users repositories.UserRepository,
	txns repositories.TransactionRepository,
	runner repositories.TxRunner,
	cache CacheOperator,
	fraud FraudChecker,
	clk clock.Clock,
	log *logrus.Logger,
	config Config,
) Service {
	if users == nil {
		panic("user repository is required")
	}
	if txns == nil {
		panic("transaction repository is required")
	}
	if runner == nil {
		panic("tx runner is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logger.New()
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.BonusConversionRate <= 0 {
		config.BonusConversionRate = DefaultBonusConversionRate
	}

	return &service{
		users:  users,
		txns:   txns,
		runner: runner,
		cache:  cache,
		fraud:  fraud,
		clock:  clk,
		log:    log,
		config: config,
	}
}

func (s *service) Deposit(ctx context.Context, userID uint, amount float64, currency string) (DepositResult, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	if amount <= 0 {
		return DepositResult{}, ErrInvalidAmount
	}

	var result DepositResult
	err := s.runner.ExecuteInTransaction(func(r repositories.TxRepositories) error {
		// Locked read: a concurrent deposit or withdrawal on the same
		// account waits here instead of applying a stale balance.
		user, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if user.Balances == nil {
			user.Balances = models.BalanceMap{}
		}
		user.Balances[currency] += amount

		gemsEarned := int(math.Floor(amount / s.config.BonusConversionRate))
		if gemsEarned > 0 {
			if user.Bonuses == nil {
				user.Bonuses = models.BalanceMap{}
			}
			user.Bonuses[models.BonusCodeGems] += float64(gemsEarned)
		}

		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}

		if err := r.Transactions.Create(ctx, s.newEntry(&models.Transaction{
			ReceiverID: &user.ID,
			Amount:     amount,
			Currency:   currency,
			Type:       models.TransactionTypeDeposit,
			Metadata:   models.Metadata{"method": "manual"},
		})); err != nil {
			return err
		}

		if gemsEarned > 0 {
			if err := r.Transactions.Create(ctx, s.newEntry(&models.Transaction{
				ReceiverID: &user.ID,
				Amount:     float64(gemsEarned),
				Currency:   models.BonusCodeGems,
				Type:       models.TransactionTypeBonusGems,
				Metadata:   models.Metadata{"reason": "deposit reward"},
			})); err != nil {
				return err
			}
		}

		result = DepositResult{
			Balance:    user.Balances[currency],
			GemsEarned: gemsEarned,
		}
		return nil
	})
	if err != nil {
		return DepositResult{}, fmt.Errorf("deposit failed: %w", err)
	}

	s.invalidate(ctx, userID)
	return result, nil
}

func (s *service) Withdraw(ctx context.Context, userID uint, amount float64, currency string) (float64, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	var (
		balance float64
		entry   *models.Transaction
	)
	err := s.runner.ExecuteInTransaction(func(r repositories.TxRepositories) error {
		user, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		// The balance check happens against the row-locked read so a
		// concurrent withdrawal cannot slip past it.
		if amount <= 0 || amount > user.Balance(currency) {
			return ErrInvalidAmount
		}

		user.Balances[currency] -= amount
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}

		entry = s.newEntry(&models.Transaction{
			SenderID: &user.ID,
			Amount:   amount,
			Currency: currency,
			Type:     models.TransactionTypeWithdraw,
			Metadata: models.Metadata{"method": "manual"},
		})
		if err := r.Transactions.Create(ctx, entry); err != nil {
			return err
		}

		balance = user.Balances[currency]
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			return 0, ErrInvalidAmount
		}
		return 0, fmt.Errorf("withdrawal failed: %w", err)
	}

	s.invalidate(ctx, userID)
	s.runFraudCheck(ctx, userID, entry)
	return balance, nil
}

func (s *service) Transfer(ctx context.Context, senderID uint, recipientEmail string, amount float64, currency string) error {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	receiver, err := s.users.GetByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidRecipient
		}
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if receiver.ID == senderID {
		return ErrInvalidRecipient
	}
	receiverID := receiver.ID

	var entry *models.Transaction
	err = s.runner.ExecuteSerializable(func(r repositories.TxRepositories) error {
		// Both accounts are re-read inside the serializable transaction;
		// the pre-resolved receiver may be stale.
		sender, err := r.Users.GetByID(ctx, senderID)
		if err != nil {
			return err
		}
		receiver, err := r.Users.GetByID(ctx, receiverID)
		if err != nil {
			return err
		}

		if sender.Balance(currency) < amount {
			return ErrInsufficientFunds
		}

		sender.Balances[currency] -= amount
		if receiver.Balances == nil {
			receiver.Balances = models.BalanceMap{}
		}
		receiver.Balances[currency] += amount

		if err := r.Users.Update(ctx, sender); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, receiver); err != nil {
			return err
		}

		entry = s.newEntry(&models.Transaction{
			SenderID:   &sender.ID,
			ReceiverID: &receiver.ID,
			Amount:     amount,
			Currency:   currency,
			Type:       models.TransactionTypeTransfer,
			Metadata:   models.Metadata{"description": "wallet transfer"},
		})
		return r.Transactions.Create(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}
		s.log.WithError(err).WithFields(logrus.Fields{
			"sender_id":   senderID,
			"receiver_id": receiverID,
			"amount":      amount,
			"currency":    currency,
		}).Error("transfer aborted, rolled back")
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	s.invalidate(ctx, senderID)
	s.invalidate(ctx, receiverID)
	s.runFraudCheck(ctx, senderID, entry)
	return nil
}

func (s *service) GetHistory(ctx context.Context, userID uint) ([]models.Transaction, error) {
	txns, err := s.txns.HistoryForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return txns, nil
}

// newEntry stamps the common ledger entry fields.
func (s *service) newEntry(txn *models.Transaction) *models.Transaction {
	txn.Status = models.TransactionStatusSuccess
	txn.Reference = uuid.NewString()
	txn.CreatedAt = s.clock.Now()
	return txn
}

// runFraudCheck evaluates the fraud rules on a committed entry. It never
// fails the calling operation: the entry is already durable, so rule or
// flag-store errors are only logged.
func (s *service) runFraudCheck(ctx context.Context, userID uint, txn *models.Transaction) {
	if s.fraud == nil || txn == nil {
		return
	}

	flags, err := s.fraud.Evaluate(ctx, userID, txn)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": txn.ID,
		}).Warn("fraud check failed")
		return
	}
	for _, flag := range flags {
		s.log.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": txn.ID,
			"flag_type":      flag.Type,
		}).Info("fraud flag raised")
	}
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate user cache")
	}
}
