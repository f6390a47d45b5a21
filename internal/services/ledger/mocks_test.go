package ledger

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"paisa/internal/models"
	"paisa/internal/repositories"

	"github.com/sirupsen/logrus"
)

// memDB is an in-memory stand-in for the persistence layer. The tx
// runner takes the write lock for the whole unit and restores a snapshot
// on error, which gives the same atomicity and isolation the real
// stores provide through database transactions.
type memDB struct {
	mu         sync.RWMutex
	users      map[uint]*models.User
	txns       []models.Transaction
	nextUserID uint
	nextTxnID  uint

	failTxnCreate bool
}

func newMemDB() *memDB {
	return &memDB{users: make(map[uint]*models.User)}
}

func (d *memDB) addUser(u *models.User) *models.User {
	d.nextUserID++
	u.ID = d.nextUserID
	if u.Balances == nil {
		u.Balances = models.BalanceMap{models.DefaultCurrency: 0}
	}
	if u.Bonuses == nil {
		u.Bonuses = models.BalanceMap{models.BonusCodeGems: 0, models.BonusCodeCoins: 0}
	}
	d.users[u.ID] = cloneUser(u)
	return u
}

func (d *memDB) user(id uint) *models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneUser(d.users[id])
}

func (d *memDB) transactions() []models.Transaction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Transaction, len(d.txns))
	copy(out, d.txns)
	return out
}

func (d *memDB) snapshot() (map[uint]*models.User, []models.Transaction, uint) {
	users := make(map[uint]*models.User, len(d.users))
	for id, u := range d.users {
		users[id] = cloneUser(u)
	}
	txns := make([]models.Transaction, len(d.txns))
	copy(txns, d.txns)
	return users, txns, d.nextTxnID
}

func (d *memDB) restore(users map[uint]*models.User, txns []models.Transaction, nextTxnID uint) {
	d.users = users
	d.txns = txns
	d.nextTxnID = nextTxnID
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Balances = make(models.BalanceMap, len(u.Balances))
	for k, v := range u.Balances {
		c.Balances[k] = v
	}
	c.Bonuses = make(models.BalanceMap, len(u.Bonuses))
	for k, v := range u.Bonuses {
		c.Bonuses[k] = v
	}
	return &c
}

// memUsers operates on memDB without locking; it is handed out inside a
// runner unit which already holds the write lock.
type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	r.db.addUser(user)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r memUsers) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	// The runner already holds the store-wide write lock for the whole
	// unit, so the locked read degenerates to a plain read here.
	return r.GetByID(ctx, id)
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r memUsers) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil || u.IsDeleted {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r memUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := r.db.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.db.users[user.ID] = cloneUser(user)
	return nil
}

func (r memUsers) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (r memUsers) SoftDelete(_ context.Context, id uint) error {
	u, ok := r.db.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsDeleted = true
	return nil
}

// memTxns operates on memDB without locking (see memUsers).
type memTxns struct{ db *memDB }

func (r memTxns) Create(_ context.Context, txn *models.Transaction) error {
	if r.db.failTxnCreate {
		return errors.New("ledger append failed")
	}
	r.db.nextTxnID++
	txn.ID = r.db.nextTxnID
	r.db.txns = append(r.db.txns, *txn)
	return nil
}

func (r memTxns) GetByID(_ context.Context, id uint) (*models.Transaction, error) {
	for i := range r.db.txns {
		if r.db.txns[i].ID == id {
			t := r.db.txns[i]
			return &t, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (r memTxns) HistoryForUser(_ context.Context, userID uint) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.db.txns {
		if (t.SenderID != nil && *t.SenderID == userID) ||
			(t.ReceiverID != nil && *t.ReceiverID == userID) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r memTxns) CountTransfersSince(_ context.Context, senderID uint, since time.Time) (int64, error) {
	var count int64
	for _, t := range r.db.txns {
		if t.Type == models.TransactionTypeTransfer &&
			t.SenderID != nil && *t.SenderID == senderID &&
			!t.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r memTxns) FindCreatedSince(_ context.Context, since time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.db.txns {
		if !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTxns) TopSenders(_ context.Context, limit int) ([]repositories.SenderCount, error) {
	counts := make(map[uint]int64)
	for _, t := range r.db.txns {
		if t.SenderID != nil {
			counts[*t.SenderID]++
		}
	}
	out := make([]repositories.SenderCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, repositories.SenderCount{SenderID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memTxns) SoftDelete(_ context.Context, id uint) error {
	for i := range r.db.txns {
		if r.db.txns[i].ID == id {
			r.db.txns[i].IsDeleted = true
			return nil
		}
	}
	return repositories.ErrTransactionNotFound
}

// lockedUsers and lockedTxns guard single calls made outside a runner
// unit.
type lockedUsers struct{ db *memDB }

func (r lockedUsers) Create(ctx context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return memUsers{r.db}.Create(ctx, u)
}

func (r lockedUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memUsers{r.db}.GetByID(ctx, id)
}

func (r lockedUsers) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memUsers{r.db}.GetByIDForUpdate(ctx, id)
}

func (r lockedUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memUsers{r.db}.GetByEmail(ctx, email)
}

func (r lockedUsers) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memUsers{r.db}.GetActiveByEmail(ctx, email)
}

func (r lockedUsers) Update(ctx context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return memUsers{r.db}.Update(ctx, u)
}

func (r lockedUsers) List(ctx context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memUsers{r.db}.List(ctx)
}

func (r lockedUsers) SoftDelete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return memUsers{r.db}.SoftDelete(ctx, id)
}

type lockedTxns struct{ db *memDB }

func (r lockedTxns) Create(ctx context.Context, t *models.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return memTxns{r.db}.Create(ctx, t)
}

func (r lockedTxns) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memTxns{r.db}.GetByID(ctx, id)
}

func (r lockedTxns) HistoryForUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memTxns{r.db}.HistoryForUser(ctx, userID)
}

func (r lockedTxns) CountTransfersSince(ctx context.Context, senderID uint, since time.Time) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memTxns{r.db}.CountTransfersSince(ctx, senderID, since)
}

func (r lockedTxns) FindCreatedSince(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memTxns{r.db}.FindCreatedSince(ctx, since)
}

func (r lockedTxns) TopSenders(ctx context.Context, limit int) ([]repositories.SenderCount, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return memTxns{r.db}.TopSenders(ctx, limit)
}

func (r lockedTxns) SoftDelete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return memTxns{r.db}.SoftDelete(ctx, id)
}

// memRunner serializes units with the store's write lock and rolls back
// to a snapshot on error.
type memRunner struct{ db *memDB }

func (r memRunner) run(fn func(repositories.TxRepositories) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	users, txns, nextTxnID := r.db.snapshot()
	err := fn(repositories.TxRepositories{
		Users:        memUsers{r.db},
		Transactions: memTxns{r.db},
	})
	if err != nil {
		r.db.restore(users, txns, nextTxnID)
	}
	return err
}

func (r memRunner) ExecuteInTransaction(fn func(repositories.TxRepositories) error) error {
	return r.run(fn)
}

func (r memRunner) ExecuteSerializable(fn func(repositories.TxRepositories) error) error {
	return r.run(fn)
}

// lockingDB models the real store's default isolation, which memDB is
// strictly stronger than: units run concurrently, reads observe the last
// committed state, writes only become visible at commit, and nothing
// serializes two units on the same account except the row lock taken by
// GetByIDForUpdate.
type lockingDB struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	txns       []models.Transaction
	nextUserID uint
	nextTxnID  uint
	rowLocks   map[uint]*sync.Mutex
}

func newLockingDB() *lockingDB {
	return &lockingDB{
		users:    make(map[uint]*models.User),
		rowLocks: make(map[uint]*sync.Mutex),
	}
}

func (d *lockingDB) addUser(u *models.User) *models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextUserID++
	u.ID = d.nextUserID
	if u.Balances == nil {
		u.Balances = models.BalanceMap{models.DefaultCurrency: 0}
	}
	if u.Bonuses == nil {
		u.Bonuses = models.BalanceMap{models.BonusCodeGems: 0, models.BonusCodeCoins: 0}
	}
	d.users[u.ID] = cloneUser(u)
	return u
}

func (d *lockingDB) user(id uint) *models.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneUser(d.users[id])
}

func (d *lockingDB) transactions() []models.Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Transaction, len(d.txns))
	copy(out, d.txns)
	return out
}

func (d *lockingDB) rowLock(id uint) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		d.rowLocks[id] = l
	}
	return l
}

// lockingUnit is one in-flight transaction against lockingDB.
type lockingUnit struct {
	db      *lockingDB
	pending map[uint]*models.User
	entries []*models.Transaction
	held    []*sync.Mutex
}

func (u *lockingUnit) get(id uint) (*models.User, error) {
	if p, ok := u.pending[id]; ok {
		return cloneUser(p), nil
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	usr, ok := u.db.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return cloneUser(usr), nil
}

type lockingUsers struct {
	repositories.UserRepository

	unit *lockingUnit
}

func (r lockingUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	return r.unit.get(id)
}

func (r lockingUsers) GetByIDForUpdate(_ context.Context, id uint) (*models.User, error) {
	// Block until any unit holding the row lock commits or aborts, then
	// read the state it left behind.
	lock := r.unit.db.rowLock(id)
	lock.Lock()
	r.unit.held = append(r.unit.held, lock)
	return r.unit.get(id)
}

func (r lockingUsers) Update(_ context.Context, user *models.User) error {
	r.unit.pending[user.ID] = cloneUser(user)
	return nil
}

type lockingTxns struct {
	repositories.TransactionRepository

	unit *lockingUnit
}

func (r lockingTxns) Create(_ context.Context, txn *models.Transaction) error {
	r.unit.entries = append(r.unit.entries, txn)
	return nil
}

type lockingRunner struct{ db *lockingDB }

func (r lockingRunner) run(fn func(repositories.TxRepositories) error) error {
	unit := &lockingUnit{db: r.db, pending: make(map[uint]*models.User)}
	err := fn(repositories.TxRepositories{
		Users:        lockingUsers{unit: unit},
		Transactions: lockingTxns{unit: unit},
	})
	if err == nil {
		r.db.mu.Lock()
		for id, u := range unit.pending {
			r.db.users[id] = u
		}
		for _, txn := range unit.entries {
			r.db.nextTxnID++
			txn.ID = r.db.nextTxnID
			r.db.txns = append(r.db.txns, *txn)
		}
		r.db.mu.Unlock()
	}
	for _, l := range unit.held {
		l.Unlock()
	}
	return err
}

func (r lockingRunner) ExecuteInTransaction(fn func(repositories.TxRepositories) error) error {
	return r.run(fn)
}

func (r lockingRunner) ExecuteSerializable(fn func(repositories.TxRepositories) error) error {
	return r.run(fn)
}

// nopUsers and nopTxns satisfy the service constructor for tests that
// only exercise the transactional path.
type nopUsers struct{ repositories.UserRepository }

type nopTxns struct {
	repositories.TransactionRepository
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fraudRecorder records fraud checker invocations.
type fraudRecorder struct {
	mu    sync.Mutex
	calls []fraudCall
	err   error
}

type fraudCall struct {
	userID uint
	txn    models.Transaction
}

func (f *fraudRecorder) Evaluate(_ context.Context, userID uint, txn *models.Transaction) ([]models.Flag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fraudCall{userID: userID, txn: *txn})
	return nil, f.err
}

func (f *fraudRecorder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
