package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockpulse/stockpulse/internal/domain"
)

// AccountStore is the persistence contract for accounts. Satisfied by
// AccountRepository; tests substitute mocks.
type AccountStore interface {
	Create(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id string) (*Account, error)
	ApplyTrade(accountID string, newBalance float64, ticker string, newQuantity int, txn Transaction) error
	AddWatch(accountID, ticker string) error
	RemoveWatch(accountID, ticker string) error
	ListTransactions(accountID string, limit int) ([]Transaction, error)
}

// Oracle resolves current prices for trade execution and valuation.
type Oracle interface {
	Resolve(symbol domain.Symbol) domain.PriceQuote
}

// Service implements account registration, authentication, trade execution,
// valuation, and watchlist management. Trades on the same account are
// serialized with a per-account mutex; the balance and holdings checks and
// the persisted trade form one critical section.
type Service struct {
	store           AccountStore
	oracle          Oracle
	startingBalance float64
	log             zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates the ledger service.
func NewService(store AccountStore, oracle Oracle, startingBalance float64, log zerolog.Logger) *Service {
	return &Service{
		store:           store,
		oracle:          oracle,
		startingBalance: startingBalance,
		log:             log.With().Str("service", "ledger").Logger(),
		locks:           make(map[string]*sync.Mutex),
	}
}

// Register creates a new account with the configured starting balance.
// Returns ErrDuplicateAccount when the email is already registered.
func (s *Service) Register(email, name, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidCredentials)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", domain.ErrInvalidCredentials)
	}

	existing, err := s.store.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CashBalance:  s.startingBalance,
		Holdings:     make(map[string]int),
		Watchlist:    []string{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Create(account); err != nil {
		// The UNIQUE constraint backs up the duplicate check against
		// concurrent registrations.
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("Account registered")

	return account, nil
}

// Authenticate verifies credentials and returns the account.
// Returns ErrInvalidCredentials for unknown emails and wrong passwords
// alike, so callers cannot probe which emails exist.
func (s *Service) Authenticate(email, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.store.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return account, nil
}

// Get returns an account by ID. Returns ErrAccountNotFound when missing.
func (s *Service) Get(accountID string) (*Account, error) {
	account, err := s.store.GetByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// Buy executes a purchase at the currently resolved price. The price is
// resolved exactly once per call; the same price appears in the returned
// transaction record.
func (s *Service) Buy(accountID string, symbol domain.Symbol, quantity int) (*Transaction, error) {
	return s.trade(accountID, symbol, quantity, TxBuy)
}

// Sell executes a sale at the currently resolved price.
func (s *Service) Sell(accountID string, symbol domain.Symbol, quantity int) (*Transaction, error) {
	return s.trade(accountID, symbol, quantity, TxSell)
}

func (s *Service) trade(accountID string, symbol domain.Symbol, quantity int, side TxType) (*Transaction, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.Get(accountID)
	if err != nil {
		return nil, err
	}

	quote := s.oracle.Resolve(symbol)
	total := domain.RoundCents(quote.Price * float64(quantity))

	held := account.Holdings[symbol.Ticker]
	var newBalance float64
	var newQuantity int

	switch side {
	case TxBuy:
		if account.CashBalance < total {
			return nil, fmt.Errorf("%w: need %.2f, have %.2f", domain.ErrInsufficientFunds, total, account.CashBalance)
		}
		newBalance = domain.RoundCents(account.CashBalance - total)
		newQuantity = held + quantity
	case TxSell:
		if held < quantity {
			return nil, fmt.Errorf("%w: hold %d, selling %d", domain.ErrInsufficientHoldings, held, quantity)
		}
		newBalance = domain.RoundCents(account.CashBalance + total)
		newQuantity = held - quantity
	default:
		return nil, fmt.Errorf("unknown trade side %q", side)
	}

	txn := Transaction{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Type:       side,
		Ticker:     symbol.Ticker,
		Quantity:   quantity,
		UnitPrice:  quote.Price,
		Total:      total,
		ExecutedAt: time.Now().UTC(),
	}

	if err := s.store.ApplyTrade(accountID, newBalance, symbol.Ticker, newQuantity, txn); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.log.Info().
		Str("account_id", accountID).
		Str("ticker", symbol.Ticker).
		Str("side", string(side)).
		Int("quantity", quantity).
		Float64("unit_price", quote.Price).
		Float64("total", total).
		Msg("Trade executed")

	return &txn, nil
}

// Valuation prices every holding at the current resolved quote and returns
// a portfolio snapshot. Price resolution degrades to synthetic quotes, so a
// valuation always completes; each position carries its price source.
func (s *Service) Valuation(accountID string) (*Valuation, error) {
	account, err := s.Get(accountID)
	if err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(account.Holdings))
	var holdingsValue float64
	for ticker, quantity := range account.Holdings {
		symbol, err := domain.NewSymbol(ticker, domain.ExchangeNSE)
		if err != nil {
			s.log.Warn().Str("ticker", ticker).Msg("Skipping unparseable holding in valuation")
			continue
		}
		quote := s.oracle.Resolve(symbol)
		value := domain.RoundCents(quote.Price * float64(quantity))
		holdingsValue += value
		positions = append(positions, Position{
			Ticker:   ticker,
			Quantity: quantity,
			Price:    quote.Price,
			Value:    value,
			Source:   string(quote.Source),
		})
	}

	holdingsValue = domain.RoundCents(holdingsValue)

	return &Valuation{
		AccountID:     accountID,
		CashBalance:   account.CashBalance,
		Positions:     positions,
		HoldingsValue: holdingsValue,
		TotalValue:    domain.RoundCents(account.CashBalance + holdingsValue),
		AsOf:          time.Now().UTC(),
	}, nil
}

// WatchlistAdd adds a ticker to the watchlist. Adding a ticker that is
// already watched succeeds without change.
func (s *Service) WatchlistAdd(accountID string, symbol domain.Symbol) error {
	if _, err := s.Get(accountID); err != nil {
		return err
	}
	if err := s.store.AddWatch(accountID, symbol.Ticker); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// WatchlistRemove removes a ticker from the watchlist. Removing a ticker
// that is not watched succeeds without change.
func (s *Service) WatchlistRemove(accountID string, symbol domain.Symbol) error {
	if _, err := s.Get(accountID); err != nil {
		return err
	}
	if err := s.store.RemoveWatch(accountID, symbol.Ticker); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Transactions returns the account's most recent transactions, newest first.
func (s *Service) Transactions(accountID string, limit int) ([]Transaction, error) {
	if _, err := s.Get(accountID); err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return txns, nil
}

func (s *Service) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[accountID] = lock
	}
	return lock
}
