package repositories

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxRepositories bundles the repositories bound to one database
// transaction. Everything done through the bundle commits or rolls back
// as a unit.
type TxRepositories struct {
	Users        UserRepository
	Transactions TransactionRepository
}

// TxRunner executes a function against a transactional repository bundle.
type TxRunner interface {
	// ExecuteInTransaction runs fn inside a database transaction with the
	// default isolation level
	ExecuteInTransaction(fn func(r TxRepositories) error) error

	// ExecuteSerializable runs fn inside a serializable database
	// transaction. Used for transfers, where two concurrent debits of the
	// same account must not both observe a stale balance.
	ExecuteSerializable(fn func(r TxRepositories) error) error
}

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) ExecuteInTransaction(fn func(TxRepositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(bindRepositories(tx))
	})
}

func (r *txRunner) ExecuteSerializable(fn func(TxRepositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(bindRepositories(tx))
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func bindRepositories(tx *gorm.DB) TxRepositories {
	return TxRepositories{
		Users:        NewUserRepository(tx),
		Transactions: NewTransactionRepository(tx),
	}
}
