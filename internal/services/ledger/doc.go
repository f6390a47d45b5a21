/*
Package ledger implements the wallet ledger core.

The ledger service owns every balance mutation. Deposits, withdrawals and
transfers each run inside one database transaction that updates the
affected accounts and appends the corresponding immutable ledger entries,
so no caller can ever observe a partially applied operation. Deposits and
withdrawals read the account row with an update lock, so two concurrent
operations on the same account serialize instead of both applying a
stale balance. Transfers
use serializable isolation: two concurrent transfers debiting the same
account cannot both read a stale balance and overdraw it.

Deposits accrue GEMS bonus points at a fixed rate (one gem per 150 units
deposited, rounded down) and record the award as a separate bonus-gems
entry.

After a withdrawal or transfer commits, the fraud checker is evaluated
synchronously on the new entry. Fraud evaluation is strictly best-effort:
its failures are logged and never surfaced to the caller or allowed to
undo the committed operation. Deposits are not checked synchronously;
large deposits are only picked up by the daily scan.

Usage:

	svc := ledger.NewService(users, txns, runner, cache, fraudChecker, nil, nil, ledger.Config{})

	res, err := svc.Deposit(ctx, userID, 300, "INR")
	balance, err := svc.Withdraw(ctx, userID, 100, "INR")
	err = svc.Transfer(ctx, senderID, "friend@example.com", 50, "INR")
	history, err := svc.GetHistory(ctx, userID)
*/
package ledger
