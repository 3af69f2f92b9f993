package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"boost-bot/config"
)

// Store is the durable state behind the bot: ticket-creation cooldowns
// (millisecond epoch per user, never deleted) and an audit trail of closed
// tickets.
type Store interface {
	Init() error
	Close() error

	// GetCooldown returns the user's last accepted ticket-creation time in
	// millisecond epoch, 0 when the user has none.
	GetCooldown(userID string) (int64, error)
	SetCooldown(userID string, ms int64) error

	AddClosedTicket(rec ClosedTicket) error
	GetClosedTickets(limit int) ([]ClosedTicket, error)
}

type ClosedTicket struct {
	ID          int    `json:"id"           bson:"id"`
	OwnerID     string `json:"owner_id"     bson:"owner_id"`
	ClosedBy    string `json:"closed_by"    bson:"closed_by"`
	ChannelID   string `json:"channel_id"   bson:"channel_id"`
	ChannelName string `json:"channel_name" bson:"channel_name"`
	ClosedAt    string `json:"closed_at"    bson:"closed_at"`
}

func InitStore(cfg *config.DatabaseConfig) (Store, error) {
	var s Store
	switch cfg.Driver {
	case "file":
		s = NewFileStore(cfg.File.Dir)
	case "sqlite":
		s = &SQLiteStore{Path: cfg.SQLite.Path}
	case "postgres":
		s = &PostgresStore{URL: cfg.Postgres.URL}
	case "mongodb":
		s = &MongoStore{URI: cfg.MongoDB.URI, DBName: cfg.MongoDB.Database}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (use \"file\", \"sqlite\", \"postgres\" or \"mongodb\")", cfg.Driver)
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}

// FileStore keeps cooldowns in a single JSON document mapping user ID to
// millisecond epoch, rewritten wholesale on every update, and closed-ticket
// records in a sibling JSON array.
type FileStore struct {
	dir string

	mu        sync.Mutex
	cooldowns map[string]int64
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) cooldownPath() string { return filepath.Join(f.dir, "ticket_cooldowns.json") }
func (f *FileStore) closedPath() string   { return filepath.Join(f.dir, "closed_tickets.json") }

func (f *FileStore) Init() error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("storage dir: %w", err)
	}
	f.cooldowns = make(map[string]int64)
	data, err := os.ReadFile(f.cooldownPath())
	if err == nil {
		// A corrupt file starts the map fresh, same as no file at all.
		_ = json.Unmarshal(data, &f.cooldowns)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) GetCooldown(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cooldowns[userID], nil
}

func (f *FileStore) SetCooldown(userID string, ms int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cooldowns[userID] = ms
	data, err := json.MarshalIndent(f.cooldowns, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.cooldownPath(), data, 0644)
}

func (f *FileStore) AddClosedTicket(rec ClosedTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []ClosedTicket
	if data, err := os.ReadFile(f.closedPath()); err == nil {
		_ = json.Unmarshal(data, &all)
	}
	rec.ID = len(all) + 1
	all = append(all, rec)
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.closedPath(), data, 0644)
}

func (f *FileStore) GetClosedTickets(limit int) ([]ClosedTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []ClosedTicket
	if data, err := os.ReadFile(f.closedPath()); err == nil {
		_ = json.Unmarshal(data, &all)
	}
	var out []ClosedTicket
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
