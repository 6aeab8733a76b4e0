package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stockpulse/stockpulse/internal/database"
)

// AccountRepository persists accounts, holdings, watchlists, and the
// transaction log in the accounts database.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates an account repository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account row. Returns an error when the email is
// already taken (UNIQUE constraint).
func (r *AccountRepository) Create(account *Account) error {
	_, err := r.db.Exec(
		`INSERT INTO accounts (id, email, name, password_hash, cash_balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.CashBalance, account.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByEmail loads an account, including holdings and watchlist.
// Returns nil, nil when no account has this email.
func (r *AccountRepository) GetByEmail(email string) (*Account, error) {
	return r.getBy("email", email)
}

// GetByID loads an account, including holdings and watchlist.
// Returns nil, nil when the ID is unknown.
func (r *AccountRepository) GetByID(id string) (*Account, error) {
	return r.getBy("id", id)
}

func (r *AccountRepository) getBy(column, value string) (*Account, error) {
	query := fmt.Sprintf(
		"SELECT id, email, name, password_hash, cash_balance, created_at FROM accounts WHERE %s = ?",
		column,
	)

	var account Account
	var createdAt int64
	err := r.db.QueryRow(query, value).Scan(
		&account.ID, &account.Email, &account.Name,
		&account.PasswordHash, &account.CashBalance, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	account.CreatedAt = time.Unix(createdAt, 0).UTC()

	if account.Holdings, err = r.loadHoldings(account.ID); err != nil {
		return nil, err
	}
	if account.Watchlist, err = r.loadWatchlist(account.ID); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) loadHoldings(accountID string) (map[string]int, error) {
	rows, err := r.db.Query(
		"SELECT ticker, quantity FROM holdings WHERE account_id = ?", accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	defer rows.Close()

	holdings := make(map[string]int)
	for rows.Next() {
		var ticker string
		var quantity int
		if err := rows.Scan(&ticker, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings[ticker] = quantity
	}
	return holdings, rows.Err()
}

func (r *AccountRepository) loadWatchlist(accountID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT ticker FROM watchlist WHERE account_id = ? ORDER BY added_at, ticker", accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	defer rows.Close()

	watchlist := make([]string, 0)
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		watchlist = append(watchlist, ticker)
	}
	return watchlist, rows.Err()
}

// ApplyTrade commits one executed trade as a single transaction: the new
// cash balance, the new holding quantity (row deleted at zero), and the
// appended transaction record. Either all three land or none do.
func (r *AccountRepository) ApplyTrade(accountID string, newBalance float64, ticker string, newQuantity int, txn Transaction) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(
			"UPDATE accounts SET cash_balance = ? WHERE id = ?",
			newBalance, accountID,
		)
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("account %s not found", accountID)
		}

		if newQuantity > 0 {
			_, err = tx.Exec(
				`INSERT INTO holdings (account_id, ticker, quantity) VALUES (?, ?, ?)
				 ON CONFLICT(account_id, ticker) DO UPDATE SET quantity = excluded.quantity`,
				accountID, ticker, newQuantity,
			)
		} else {
			_, err = tx.Exec(
				"DELETE FROM holdings WHERE account_id = ? AND ticker = ?",
				accountID, ticker,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to update holding: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO transactions (id, account_id, type, ticker, quantity, unit_price, total, executed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, txn.AccountID, string(txn.Type), txn.Ticker,
			txn.Quantity, txn.UnitPrice, txn.Total, txn.ExecutedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		return nil
	})
}

// AddWatch inserts a watchlist entry. Idempotent.
func (r *AccountRepository) AddWatch(accountID, ticker string) error {
	_, err := r.db.Exec(
		`INSERT INTO watchlist (account_id, ticker, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(account_id, ticker) DO NOTHING`,
		accountID, ticker, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return nil
}

// RemoveWatch deletes a watchlist entry. Idempotent.
func (r *AccountRepository) RemoveWatch(accountID, ticker string) error {
	_, err := r.db.Exec(
		"DELETE FROM watchlist WHERE account_id = ? AND ticker = ?",
		accountID, ticker,
	)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}
	return nil
}

// ListTransactions returns the most recent transactions for an account,
// newest first.
func (r *AccountRepository) ListTransactions(accountID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		`SELECT id, account_id, type, ticker, quantity, unit_price, total, executed_at
		 FROM transactions WHERE account_id = ?
		 ORDER BY executed_at DESC, id LIMIT ?`,
		accountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]Transaction, 0)
	for rows.Next() {
		var txn Transaction
		var txType string
		var executedAt int64
		if err := rows.Scan(&txn.ID, &txn.AccountID, &txType, &txn.Ticker,
			&txn.Quantity, &txn.UnitPrice, &txn.Total, &executedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Type = TxType(txType)
		txn.ExecutedAt = time.Unix(executedAt, 0).UTC()
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
