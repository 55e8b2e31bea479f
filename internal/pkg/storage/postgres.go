package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"betledger/internal/pkg/models"
)

// Ensure PostgresBetStore implements BetStore
var _ BetStore = (*PostgresBetStore)(nil)

// PostgresBetStore stores bet records in PostgreSQL.
type PostgresBetStore struct {
	db  *sql.DB
	loc *time.Location
}

// NewPostgresBetStore opens the connection, pings it and initializes the
// schema. Timestamps read back are normalized into loc.
func NewPostgresBetStore(dsn string, loc *time.Location) (*PostgresBetStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := &PostgresBetStore{db: db, loc: loc}
	if err := store.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresBetStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS bets (
		id TEXT PRIMARY KEY,
		date_placed TIMESTAMPTZ NOT NULL,
		event_date TIMESTAMPTZ,
		tipster TEXT NOT NULL,
		selection TEXT NOT NULL,
		odds NUMERIC(10, 4) NOT NULL,
		bookmaker TEXT NOT NULL,
		stake NUMERIC(14, 2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		return_amount NUMERIC(14, 2),
		profit NUMERIC(14, 2)
	);

	CREATE INDEX IF NOT EXISTS idx_bets_date_placed ON bets(date_placed);
	CREATE INDEX IF NOT EXISTS idx_bets_status ON bets(status);
	CREATE INDEX IF NOT EXISTS idx_bets_tipster ON bets(tipster);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresBetStore) Append(ctx context.Context, bet *models.Bet) error {
	var eventDate sql.NullTime
	if bet.EventDate != nil {
		eventDate = sql.NullTime{Time: *bet.EventDate, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bets (id, date_placed, event_date, tipster, selection, odds, bookmaker, stake, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		bet.ID, bet.DatePlaced, eventDate, bet.Tipster, bet.Selection,
		bet.Odds, bet.Bookmaker, bet.Stake, string(bet.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bet %s: %w", bet.ID, err)
	}
	return nil
}

func (s *PostgresBetStore) FindByID(ctx context.Context, id string) (*models.Bet, error) {
	row := s.db.QueryRowContext(ctx, selectBets+` WHERE id = $1`, id)
	bet, err := s.scanBet(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bet %s: %w", id, err)
	}
	return bet, nil
}

// Settle updates status, return and profit in one statement, gated on the row
// still being Pending so a second settlement cannot overwrite the first.
func (s *PostgresBetStore) Settle(ctx context.Context, id string, status models.BetStatus, ret, profit decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bets SET status = $2, return_amount = $3, profit = $4
		WHERE id = $1 AND status = 'Pending'`,
		id, string(status), ret.Round(2), profit.Round(2),
	)
	if err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", id, err)
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadySettled
}

func (s *PostgresBetStore) List(ctx context.Context) ([]models.Bet, error) {
	rows, err := s.db.QueryContext(ctx, selectBets+` ORDER BY date_placed`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var bets []models.Bet
	for rows.Next() {
		bet, err := s.scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet row: %w", err)
		}
		bets = append(bets, *bet)
	}
	return bets, rows.Err()
}

// Ping checks connectivity for health reporting.
func (s *PostgresBetStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *PostgresBetStore) Close() error {
	return s.db.Close()
}

const selectBets = `
	SELECT id, date_placed, event_date, tipster, selection, odds, bookmaker, stake, status, return_amount, profit
	FROM bets`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBet coerces one raw row into a typed record. This is the only place
// cell values are interpreted.
func (s *PostgresBetStore) scanBet(row rowScanner) (*models.Bet, error) {
	var (
		bet       models.Bet
		status    string
		eventDate sql.NullTime
		ret       decimal.NullDecimal
		profit    decimal.NullDecimal
	)
	err := row.Scan(&bet.ID, &bet.DatePlaced, &eventDate, &bet.Tipster, &bet.Selection,
		&bet.Odds, &bet.Bookmaker, &bet.Stake, &status, &ret, &profit)
	if err != nil {
		return nil, err
	}
	bet.Status = models.BetStatus(status)
	bet.DatePlaced = bet.DatePlaced.In(s.loc)
	if eventDate.Valid {
		t := eventDate.Time.In(s.loc)
		bet.EventDate = &t
	}
	if ret.Valid {
		bet.Return = ret.Decimal
	}
	if profit.Valid {
		bet.Profit = profit.Decimal
	}
	return &bet, nil
}
