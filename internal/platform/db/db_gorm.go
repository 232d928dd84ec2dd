package db

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stock_screener/internal/domain/entity"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// uniqueViolation は PostgreSQL の unique_violation エラーコードです。
const uniqueViolation = "23505"

// Config はデータベース接続設定です。
type Config struct {
	User          string `env:"DB_USER"`
	Password      string `env:"DB_PASSWORD"`
	Name          string `env:"DB_NAME"`
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	InstanceName  string `env:"INSTANCE_CONNECTION_NAME"`
	RunMigrations bool   `env:"RUN_MIGRATIONS"`
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Printf("[WARN] invalid database config: %v", err)
	}
	return cfg
}

// BuildDSN は設定から PostgreSQL の DSN を組み立てます。
// InstanceName が設定されている場合は Cloud SQL の Unix ソケットを優先します。
func BuildDSN(cfg Config) string {
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
		port = ""
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s", host, cfg.User, cfg.Password, cfg.Name)
	if port != "" {
		dsn += " port=" + port
	}
	return dsn + " sslmode=disable TimeZone=UTC"
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// PostgresOpener は本番用の Opener です。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// ConnectWithRetry は timeout に達するまで接続を繰り返します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(min(retryInterval, remaining))
	}
}

// OpenDB は接続を確立し、RUN_MIGRATIONS=true の場合はスキーマを作成します。
func OpenDB(cfg Config) *gorm.DB {
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, PostgresOpener)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.RunMigrations {
		if err := AutoMigrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}
	return db
}

// AutoMigrate creates or updates every table of the screener schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Sector{},
		&entity.Company{},
		&entity.Attribute{},
		&entity.AttributeValue{},
		&entity.ValueHistory{},
	)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
