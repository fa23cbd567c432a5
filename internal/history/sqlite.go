package history

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the whole history in process memory. The simulation has no
// persistence requirement, so this is the default.
const MemoryDSN = "file:casino?mode=memory&cache=shared"

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A shared in-memory database disappears when its last connection
	// closes; pin one open.
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			wager INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			result TEXT NOT NULL DEFAULT '',
			balance_after INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_created_at ON rounds(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_game_created ON rounds(game, created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveRound saves a single settled round
func (s *SQLiteDB) SaveRound(round *Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	query := `INSERT INTO rounds (id, game, wager, won, result, balance_after)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		round.ID, round.Game, round.Wager, round.Won, round.Result, round.BalanceAfter,
	)
	return err
}

// SaveRounds saves a batch of rounds in one transaction
func (s *SQLiteDB) SaveRounds(rounds []Round) error {
	if len(rounds) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO rounds (id, game, wager, won, result, balance_after)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range rounds {
		if rounds[i].ID == "" {
			rounds[i].ID = uuid.New().String()
		}
		r := rounds[i]
		if _, err := stmt.Exec(r.ID, r.Game, r.Wager, r.Won, r.Result, r.BalanceAfter); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRound retrieves a round by ID
func (s *SQLiteDB) GetRound(id string) (*Round, error) {
	query := `SELECT id, game, wager, won, result, balance_after, created_at
		FROM rounds WHERE id = ?`

	var round Round
	err := s.db.QueryRow(query, id).Scan(
		&round.ID, &round.Game, &round.Wager, &round.Won,
		&round.Result, &round.BalanceAfter, &round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// ListRounds retrieves rounds with pagination, newest first
func (s *SQLiteDB) ListRounds(query RoundsQuery) (*RoundsList, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 25
	}

	countQuery := "SELECT COUNT(*) FROM rounds"
	listQuery := `SELECT id, game, wager, won, result, balance_after, created_at
		FROM rounds`
	args := []interface{}{}

	if query.Game != "" {
		countQuery += " WHERE game = ?"
		listQuery += " WHERE game = ?"
		args = append(args, query.Game)
	}

	var totalCount int
	if err := s.db.QueryRow(countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count rounds: %w", err)
	}

	listQuery += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, query.PerPage, (query.Page-1)*query.PerPage)

	rows, err := s.db.Query(listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	rounds := []Round{}
	for rows.Next() {
		var round Round
		if err := rows.Scan(
			&round.ID, &round.Game, &round.Wager, &round.Won,
			&round.Result, &round.BalanceAfter, &round.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.PerPage)))

	return &RoundsList{
		Rounds:     rounds,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// Summary aggregates all rounds, optionally filtered to one game
func (s *SQLiteDB) Summary(game string) (*Summary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(wager), 0), COALESCE(SUM(won), 0) FROM rounds`
	args := []interface{}{}
	if game != "" {
		query += " WHERE game = ?"
		args = append(args, game)
	}

	var sum Summary
	sum.Game = game
	if err := s.db.QueryRow(query, args...).Scan(&sum.Rounds, &sum.TotalWager, &sum.TotalWon); err != nil {
		return nil, fmt.Errorf("failed to summarize rounds: %w", err)
	}
	sum.Net = sum.TotalWon - sum.TotalWager
	return &sum, nil
}
