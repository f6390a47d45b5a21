// Package admin provides the read-only review surface over the ledger
// and flag stores, plus soft-delete moderation. It adds no invariants of
// its own.
package admin

import (
	"context"
	"sort"

	"paisa/internal/models"
	"paisa/internal/repositories"
)

const topUserCount = 5

// UserBalance summarizes one user's total balance across currencies.
type UserBalance struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TotalBalance float64 `json:"total_balance"`
}

// UserActivity summarizes one user's sent transaction count.
type UserActivity struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	TransactionCount int64  `json:"transaction_count"`
}

// TopUsersReport holds both top-five rankings.
type TopUsersReport struct {
	ByBalance      []UserBalance  `json:"top_users_by_balance"`
	ByTransactions []UserActivity `json:"top_users_by_transactions"`
}

type Service interface {
	ListFlags(ctx context.Context) ([]models.Flag, error)
	TotalBalances(ctx context.Context) (map[string]float64, error)
	TopUsers(ctx context.Context) (*TopUsersReport, error)
	SoftDeleteUser(ctx context.Context, id uint) error
	SoftDeleteTransaction(ctx context.Context, id uint) error
}

type service struct {
	users repositories.UserRepository
	txns  repositories.TransactionRepository
	flags repositories.FlagRepository
}

func NewService(
	users repositories.UserRepository,
	txns repositories.TransactionRepository,
	flags repositories.FlagRepository,
) Service {
	return &service{
		users: users,
		txns:  txns,
		flags: flags,
	}
}

func (s *service) ListFlags(ctx context.Context) ([]models.Flag, error) {
	return s.flags.List(ctx)
}

func (s *service) TotalBalances(ctx context.Context) (map[string]float64, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, user := range users {
		for currency, amount := range user.Balances {
			totals[currency] += amount
		}
	}
	return totals, nil
}

func (s *service) TopUsers(ctx context.Context) (*TopUsersReport, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	byBalance := make([]UserBalance, 0, len(users))
	for _, user := range users {
		var total float64
		for _, amount := range user.Balances {
			total += amount
		}
		byBalance = append(byBalance, UserBalance{
			Name:         user.Name,
			Email:        user.Email,
			TotalBalance: total,
		})
	}
	sort.Slice(byBalance, func(i, j int) bool {
		return byBalance[i].TotalBalance > byBalance[j].TotalBalance
	})
	if len(byBalance) > topUserCount {
		byBalance = byBalance[:topUserCount]
	}

	counts, err := s.txns.TopSenders(ctx, topUserCount)
	if err != nil {
		return nil, err
	}

	byTransactions := make([]UserActivity, 0, len(counts))
	for _, c := range counts {
		activity := UserActivity{Name: "Unknown", Email: "Unknown", TransactionCount: c.Count}
		if user, err := s.users.GetByID(ctx, c.SenderID); err == nil {
			activity.Name = user.Name
			activity.Email = user.Email
		}
		byTransactions = append(byTransactions, activity)
	}

	return &TopUsersReport{
		ByBalance:      byBalance,
		ByTransactions: byTransactions,
	}, nil
}

func (s *service) SoftDeleteUser(ctx context.Context, id uint) error {
	return s.users.SoftDelete(ctx, id)
}

func (s *service) SoftDeleteTransaction(ctx context.Context, id uint) error {
	return s.txns.SoftDelete(ctx, id)
}
