package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/domain"
)

const (
	CollectionLinks  = "links"
	CollectionVisits = "visits"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateCode  = errors.New("short code already exists")
	ErrUnknownBackend = errors.New("unsupported store url scheme")
)

// Error is returned for any failure talking to the store. It never carries
// the store credential.
type Error struct {
	Collection string
	Op         string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Collection, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func storeErr(collection, op string, err error) error {
	return &Error{Collection: collection, Op: op, Err: err}
}

// Store is the persistence contract shared by every backend.
type Store interface {
	InsertLink(ctx context.Context, link *domain.Link) error
	FindLinkByCode(ctx context.Context, code string) (*domain.Link, error)
	InsertVisit(ctx context.Context, visit *domain.Visit) error
	FindVisitsByLinkID(ctx context.Context, linkID int64) ([]domain.Visit, error)
	Close() error
}

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendLibSQL   Backend = "libsql"
	BackendSQLite   Backend = "sqlite"
	BackendMongo    Backend = "mongo"
)

// BackendFor picks the store backend from the scheme of rawURL.
func BackendFor(rawURL string) (Backend, error) {
	lower := strings.ToLower(rawURL)
	switch {
	case hasScheme(lower, "postgres", "postgresql"):
		return BackendPostgres, nil
	case hasScheme(lower, "libsql", "https", "wss"):
		return BackendLibSQL, nil
	case hasScheme(lower, "sqlite"), strings.HasPrefix(lower, "file:"), lower == ":memory:":
		return BackendSQLite, nil
	case hasScheme(lower, "mongodb", "mongodb+srv"):
		return BackendMongo, nil
	default:
		return "", ErrUnknownBackend
	}
}

func hasScheme(rawURL string, schemes ...string) bool {
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return true
		}
	}
	return false
}

// Open connects to the backend selected by cfg.URL and prepares its schema.
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	backend, err := BackendFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendPostgres:
		return NewPostgresRepository(ctx, cfg)
	case BackendMongo:
		return NewMongoRepository(ctx, cfg)
	default:
		return NewSQLRepository(ctx, cfg)
	}
}

// sqlTimeLayout keeps a fixed width so text timestamps sort chronologically.
const sqlTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqlTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// RedactURL hides the password and query string of a store URL for logging.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "<unparsed store url>"
	}
	u.RawQuery = ""
	return u.Redacted()
}
