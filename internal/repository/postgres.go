package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/metrics"
)

// Metric tables are written with COPY by metrics.PostgresSink, so they are
// plain SQL rather than gorm models.
const metricsSchema = `
CREATE TABLE IF NOT EXISTS http_metrics (
	time        TIMESTAMPTZ      NOT NULL,
	method      TEXT             NOT NULL,
	path        TEXT             NOT NULL,
	status_code INT              NOT NULL,
	duration_ms DOUBLE PRECISION NOT NULL,
	client_ip   TEXT             NOT NULL,
	request_id  TEXT             NOT NULL,
	error       TEXT             NOT NULL
);

CREATE TABLE IF NOT EXISTS business_metrics (
	time        TIMESTAMPTZ      NOT NULL,
	metric_name TEXT             NOT NULL,
	value       DOUBLE PRECISION NOT NULL,
	labels      JSONB            NOT NULL
);

CREATE TABLE IF NOT EXISTS infra_metrics (
	time          TIMESTAMPTZ      NOT NULL,
	goroutines    INT              NOT NULL,
	heap_alloc_mb DOUBLE PRECISION NOT NULL,
	pool_acquired INT              NOT NULL,
	pool_idle     INT              NOT NULL,
	pool_total    INT              NOT NULL,
	pool_max      INT              NOT NULL
);
`

const visitsLinkForeignKey = "visits_link_id_fkey"

// PostgresRepository keeps links and visits in gorm models over a pgx pool.
// The pool itself is shared with the metrics sink.
type PostgresRepository struct {
	pool  *pgxpool.Pool
	sqlDB *sql.DB
	db    *gorm.DB
}

func NewPostgresRepository(ctx context.Context, cfg *config.StoreConfig) (*PostgresRepository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres url: %w", err)
	}
	poolCfg.ConnConfig.Password = cfg.Key
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	repo := &PostgresRepository{pool: pool, sqlDB: sqlDB, db: db}
	if err := repo.migrate(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.AutoMigrate(&domain.Link{}, &domain.Visit{}); err != nil {
		return err
	}

	if !db.Migrator().HasConstraint(&domain.Visit{}, visitsLinkForeignKey) {
		err := db.Exec(`ALTER TABLE visits ADD CONSTRAINT ` + visitsLinkForeignKey +
			` FOREIGN KEY (link_id) REFERENCES links (id)`).Error
		if err != nil {
			return err
		}
	}

	_, err := r.pool.Exec(ctx, metricsSchema)
	return err
}

// Pool exposes the connection pool for the metrics sink and pool stats.
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *PostgresRepository) PoolStat() metrics.PoolStat {
	stat := r.pool.Stat()
	return metrics.PoolStat{
		Acquired: int(stat.AcquiredConns()),
		Idle:     int(stat.IdleConns()),
		Total:    int(stat.TotalConns()),
		Max:      int(stat.MaxConns()),
	}
}

func (r *PostgresRepository) Close() error {
	err := r.sqlDB.Close()
	r.pool.Close()
	return err
}

func (r *PostgresRepository) InsertLink(ctx context.Context, link *domain.Link) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	if err != nil {
		return storeErr(CollectionLinks, "insert", err)
	}
	return nil
}

func (r *PostgresRepository) FindLinkByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link
	err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(CollectionLinks, "find", err)
	}
	link.CreatedAt = link.CreatedAt.UTC()
	return &link, nil
}

func (r *PostgresRepository) InsertVisit(ctx context.Context, visit *domain.Visit) error {
	if err := r.db.WithContext(ctx).Create(visit).Error; err != nil {
		return storeErr(CollectionVisits, "insert", err)
	}
	return nil
}

func (r *PostgresRepository) FindVisitsByLinkID(ctx context.Context, linkID int64) ([]domain.Visit, error) {
	var visits []domain.Visit
	err := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("visited_at, id").
		Find(&visits).Error
	if err != nil {
		return nil, storeErr(CollectionVisits, "find", err)
	}
	for i := range visits {
		visits[i].VisitedAt = visits[i].VisitedAt.UTC()
	}
	return visits, nil
}
