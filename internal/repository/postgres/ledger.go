package postgres

import (
	"context"
	"database/sql"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/repository"
)

// ledgerRepository keeps the pooled balances in a single ledger_state
// row and per-account withdrawable balances in their own table. Every
// method that touches more than one balance runs in one transaction so
// a partial write can never be observed.
type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func creditWithdrawable(ctx context.Context, tx *sql.Tx, account string, amount int64) error {
	query := `INSERT INTO withdrawable_balances (account, balance) VALUES ($1, $2)
	          ON CONFLICT (account) DO UPDATE SET balance = withdrawable_balances.balance + $2`
	_, err := tx.ExecContext(ctx, query, account, amount)
	return err
}

func (r *ledgerRepository) Balances(ctx context.Context) (*domain.LedgerBalances, error) {
	b := &domain.LedgerBalances{}
	query := `SELECT s.insurance_pool, s.platform_fees_accrued,
	                 s.total_received - s.insurance_pool - s.platform_fees_accrued
	                   - COALESCE((SELECT SUM(balance) FROM withdrawable_balances), 0)
	                   - s.total_withdrawn,
	                 s.total_received, s.total_withdrawn
	          FROM ledger_state s WHERE s.id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&b.InsurancePool, &b.PlatformFeesAccrued, &b.HeldRental, &b.TotalReceived, &b.TotalWithdrawn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *ledgerRepository) Withdrawable(ctx context.Context, account string) (int64, error) {
	var balance int64
	query := `SELECT COALESCE((SELECT balance FROM withdrawable_balances WHERE account = $1), 0)`
	err := r.db.QueryRowContext(ctx, query, account).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) ReceiveBookingPayment(ctx context.Context, rental, premium int64) error {
	query := `UPDATE ledger_state SET total_received = total_received + $1, insurance_pool = insurance_pool + $2 WHERE id = 1`
	_, err := r.db.ExecContext(ctx, query, rental+premium, premium)
	return err
}

func (r *ledgerRepository) SettleRental(ctx context.Context, owner string, payout, fee int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE ledger_state SET platform_fees_accrued = platform_fees_accrued + $1 WHERE id = 1`, fee); err != nil {
			return err
		}
		return creditWithdrawable(ctx, tx, owner, payout)
	})
}

func (r *ledgerRepository) RefundBooking(ctx context.Context, renter string, refund, penalty, poolDebit int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		// LEAST floors the pool debit at the current pool balance.
		query := `UPDATE ledger_state
		          SET insurance_pool = insurance_pool - LEAST($1, insurance_pool),
		              platform_fees_accrued = platform_fees_accrued + $2
		          WHERE id = 1`
		if _, err := tx.ExecContext(ctx, query, poolDebit, penalty); err != nil {
			return err
		}
		return creditWithdrawable(ctx, tx, renter, refund)
	})
}

func (r *ledgerRepository) SettleClaim(ctx context.Context, recipient string, amount int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE ledger_state SET insurance_pool = insurance_pool - $1 WHERE id = 1 AND insurance_pool >= $1`
		res, err := tx.ExecContext(ctx, query, amount)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrInsufficientPool
		}
		return creditWithdrawable(ctx, tx, recipient, amount)
	})
}

func (r *ledgerRepository) DepositToPool(ctx context.Context, amount int64) error {
	query := `UPDATE ledger_state SET total_received = total_received + $1, insurance_pool = insurance_pool + $1 WHERE id = 1`
	_, err := r.db.ExecContext(ctx, query, amount)
	return err
}

func (r *ledgerRepository) Credit(ctx context.Context, account string, amount int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return creditWithdrawable(ctx, tx, account, amount)
	})
}

func (r *ledgerRepository) WithdrawAll(ctx context.Context, account string) (int64, error) {
	var amount int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT balance FROM withdrawable_balances WHERE account = $1 FOR UPDATE`, account).Scan(&amount)
		if err == sql.ErrNoRows || (err == nil && amount == 0) {
			return domain.ErrNothingToWithdraw
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE withdrawable_balances SET balance = 0 WHERE account = $1`, account); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE ledger_state SET total_withdrawn = total_withdrawn + $1 WHERE id = 1`, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func (r *ledgerRepository) RestoreWithdrawable(ctx context.Context, account string, amount int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := creditWithdrawable(ctx, tx, account, amount); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE ledger_state SET total_withdrawn = total_withdrawn - $1 WHERE id = 1`, amount)
		return err
	})
}

func (r *ledgerRepository) WithdrawFees(ctx context.Context) (int64, error) {
	var amount int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT platform_fees_accrued FROM ledger_state WHERE id = 1 FOR UPDATE`).Scan(&amount)
		if err != nil {
			return err
		}
		if amount == 0 {
			return domain.ErrNothingToWithdraw
		}
		_, err = tx.ExecContext(ctx, `UPDATE ledger_state SET platform_fees_accrued = 0, total_withdrawn = total_withdrawn + $1 WHERE id = 1`, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func (r *ledgerRepository) RestoreFees(ctx context.Context, amount int64) error {
	query := `UPDATE ledger_state SET platform_fees_accrued = platform_fees_accrued + $1, total_withdrawn = total_withdrawn - $1 WHERE id = 1`
	_, err := r.db.ExecContext(ctx, query, amount)
	return err
}
