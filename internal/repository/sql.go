package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/metrics"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS links (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	original_url TEXT NOT NULL,
	short_code   TEXT NOT NULL UNIQUE,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS visits (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	link_id    INTEGER NOT NULL REFERENCES links (id),
	ip         TEXT NOT NULL,
	user_agent TEXT NOT NULL,
	location   TEXT NOT NULL DEFAULT '{}',
	visited_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_link_id_visited_at ON visits (link_id, visited_at);
`

// SQLRepository serves both the local sqlite backend (modernc) and hosted
// libsql databases.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(ctx context.Context, cfg *config.StoreConfig) (*SQLRepository, error) {
	backend, err := BackendFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch backend {
	case BackendLibSQL:
		dsn, err := libsqlDSN(cfg.URL, cfg.Key)
		if err != nil {
			return nil, err
		}
		db, err = sql.Open("libsql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open libsql database: %w", err)
		}
		db.SetMaxOpenConns(int(cfg.MaxConns))
	case BackendSQLite:
		db, err = sql.Open("sqlite", strings.TrimPrefix(cfg.URL, "sqlite://"))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// A single connection keeps :memory: databases shared and
		// serializes writers the way sqlite wants anyway.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", backend, err)
	}

	if err := migrate(ctx, db, backend); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLRepository{db: db}, nil
}

func libsqlDSN(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse libsql url: %w", err)
	}
	q := u.Query()
	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func migrate(ctx context.Context, db *sql.DB, backend Backend) error {
	if backend == BackendSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			return err
		}
	}
	for _, stmt := range strings.Split(sqlSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) PoolStat() metrics.PoolStat {
	stat := r.db.Stats()
	return metrics.PoolStat{
		Acquired: stat.InUse,
		Idle:     stat.Idle,
		Total:    stat.OpenConnections,
		Max:      stat.MaxOpenConnections,
	}
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRepository) InsertLink(ctx context.Context, link *domain.Link) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO links (original_url, short_code, created_at) VALUES (?, ?, ?) RETURNING id`,
		link.OriginalURL, link.ShortCode, formatTime(link.CreatedAt),
	).Scan(&link.ID)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return storeErr(CollectionLinks, "insert", err)
	}
	return nil
}

func (r *SQLRepository) FindLinkByCode(ctx context.Context, code string) (*domain.Link, error) {
	var (
		link      domain.Link
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, original_url, short_code, created_at FROM links WHERE short_code = ?`,
		code,
	).Scan(&link.ID, &link.OriginalURL, &link.ShortCode, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr(CollectionLinks, "find", err)
	}

	link.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, storeErr(CollectionLinks, "find", err)
	}
	return &link, nil
}

func (r *SQLRepository) InsertVisit(ctx context.Context, visit *domain.Visit) error {
	location, err := json.Marshal(visit.Location)
	if err != nil {
		return storeErr(CollectionVisits, "insert", err)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO visits (link_id, ip, user_agent, location, visited_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		visit.LinkID, visit.IP, visit.UserAgent, string(location), formatTime(visit.VisitedAt),
	).Scan(&visit.ID)
	if err != nil {
		return storeErr(CollectionVisits, "insert", err)
	}
	return nil
}

func (r *SQLRepository) FindVisitsByLinkID(ctx context.Context, linkID int64) ([]domain.Visit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, link_id, ip, user_agent, location, visited_at
		 FROM visits WHERE link_id = ? ORDER BY visited_at, id`,
		linkID,
	)
	if err != nil {
		return nil, storeErr(CollectionVisits, "find", err)
	}
	defer rows.Close()

	visits := []domain.Visit{}
	for rows.Next() {
		var (
			v         domain.Visit
			location  string
			visitedAt string
		)
		if err := rows.Scan(&v.ID, &v.LinkID, &v.IP, &v.UserAgent, &location, &visitedAt); err != nil {
			return nil, storeErr(CollectionVisits, "find", err)
		}
		if err := json.Unmarshal([]byte(location), &v.Location); err != nil {
			return nil, storeErr(CollectionVisits, "find", err)
		}
		if v.VisitedAt, err = parseTime(visitedAt); err != nil {
			return nil, storeErr(CollectionVisits, "find", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(CollectionVisits, "find", err)
	}
	return visits, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	// libsql reports constraint failures as plain text over the wire.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
