package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	Path string
	db   *sql.DB
}

func (s *SQLiteStore) Init() error {
	_ = os.MkdirAll(filepath.Dir(s.Path), 0755)

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("sqlite open: %w", err)
	}
	s.db = db

	schema := `
	CREATE TABLE IF NOT EXISTS ticket_cooldowns (
		user_id  TEXT PRIMARY KEY,
		last_ms  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS closed_tickets (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id      TEXT NOT NULL,
		closed_by     TEXT NOT NULL,
		channel_id    TEXT NOT NULL,
		channel_name  TEXT NOT NULL DEFAULT '',
		closed_at     TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	log.Printf("[DB] SQLite initialised at %s", s.Path)
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetCooldown(userID string) (int64, error) {
	var ms int64
	err := s.db.QueryRow("SELECT last_ms FROM ticket_cooldowns WHERE user_id = ?", userID).Scan(&ms)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return ms, err
}

func (s *SQLiteStore) SetCooldown(userID string, ms int64) error {
	_, err := s.db.Exec(
		"INSERT INTO ticket_cooldowns (user_id, last_ms) VALUES (?, ?) ON CONFLICT(user_id) DO UPDATE SET last_ms = excluded.last_ms",
		userID, ms,
	)
	return err
}

func (s *SQLiteStore) AddClosedTicket(rec ClosedTicket) error {
	_, err := s.db.Exec(
		"INSERT INTO closed_tickets (owner_id, closed_by, channel_id, channel_name, closed_at) VALUES (?, ?, ?, ?, ?)",
		rec.OwnerID, rec.ClosedBy, rec.ChannelID, rec.ChannelName, rec.ClosedAt,
	)
	return err
}

func (s *SQLiteStore) GetClosedTickets(limit int) ([]ClosedTicket, error) {
	rows, err := s.db.Query(
		"SELECT id, owner_id, closed_by, channel_id, channel_name, closed_at FROM closed_tickets ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []ClosedTicket
	for rows.Next() {
		var r ClosedTicket
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.ClosedBy, &r.ChannelID, &r.ChannelName, &r.ClosedAt); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

type PostgresStore struct {
	URL  string
	pool *pgxpool.Pool
}

func (p *PostgresStore) Init() error {
	cfg, err := pgxpool.ParseConfig(p.URL)
	if err != nil {
		return fmt.Errorf("postgres url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.RuntimeParams = map[string]string{
		"application_name": "boost-bot",
		"timezone":         "UTC",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres ping: %w", err)
	}
	p.pool = pool

	schema := `
	CREATE TABLE IF NOT EXISTS ticket_cooldowns (
		user_id  TEXT PRIMARY KEY,
		last_ms  BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS closed_tickets (
		id            SERIAL PRIMARY KEY,
		owner_id      TEXT NOT NULL,
		closed_by     TEXT NOT NULL,
		channel_id    TEXT NOT NULL,
		channel_name  TEXT NOT NULL DEFAULT '',
		closed_at     TEXT NOT NULL
	);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("postgres schema: %w", err)
	}
	log.Println("[DB] PostgreSQL initialised")
	return nil
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *PostgresStore) GetCooldown(userID string) (int64, error) {
	var ms int64
	err := p.pool.QueryRow(context.Background(),
		"SELECT last_ms FROM ticket_cooldowns WHERE user_id = $1", userID).Scan(&ms)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return ms, err
}

func (p *PostgresStore) SetCooldown(userID string, ms int64) error {
	_, err := p.pool.Exec(context.Background(),
		"INSERT INTO ticket_cooldowns (user_id, last_ms) VALUES ($1, $2) ON CONFLICT (user_id) DO UPDATE SET last_ms = EXCLUDED.last_ms",
		userID, ms,
	)
	return err
}

func (p *PostgresStore) AddClosedTicket(rec ClosedTicket) error {
	_, err := p.pool.Exec(context.Background(),
		"INSERT INTO closed_tickets (owner_id, closed_by, channel_id, channel_name, closed_at) VALUES ($1, $2, $3, $4, $5)",
		rec.OwnerID, rec.ClosedBy, rec.ChannelID, rec.ChannelName, rec.ClosedAt,
	)
	return err
}

func (p *PostgresStore) GetClosedTickets(limit int) ([]ClosedTicket, error) {
	rows, err := p.pool.Query(context.Background(),
		"SELECT id, owner_id, closed_by, channel_id, channel_name, closed_at FROM closed_tickets ORDER BY id DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []ClosedTicket
	for rows.Next() {
		var r ClosedTicket
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.ClosedBy, &r.ChannelID, &r.ChannelName, &r.ClosedAt); err != nil {
			continue
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
