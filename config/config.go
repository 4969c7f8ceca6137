package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Storage  Storage
	Shelf    Shelf
	Postgres Postgres
	Redis    Redis
	Telegram Telegram
	Covers   Covers
	Mail     Mail
	Jobs     Jobs

	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"2h"`
}

type Storage struct {
	// Backend selects where the shelf slot lives: file, redis or postgres.
	Backend  string `env:"STORAGE_BACKEND" envDefault:"file"`
	FilePath string `env:"FILE_STORAGE_PATH" envDefault:"bookshelf.json"`
}

type Shelf struct {
	SlotKey      string   `env:"SHELF_SLOT" envDefault:"bookshelf"`
	DefaultCover string   `env:"SHELF_DEFAULT_COVER" envDefault:"https://covers.openlibrary.org/b/id/10909258-M.jpg"`
	PersistSort  bool     `env:"SHELF_PERSIST_SORT" envDefault:"true"`
	Categories   []string `env:"SHELF_CATEGORIES" envSeparator:"," envDefault:"Fiction,Non-Fiction,Science,History,Fantasy,Biography"`
	BooksPerPage int      `env:"SHELF_BOOKS_PER_PAGE" envDefault:"10"`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"bookshelf"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"300"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:""`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Telegram struct {
	Token      string `env:"TELEGRAM_TOKEN"`
	UpdTimeout int    `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10"`
}

type Covers struct {
	Enabled  bool   `env:"COVERS_ENABLED" envDefault:"false"`
	BaseUrl  string `env:"COVERS_BASE_URL" envDefault:"https://openlibrary.org"`
	ProxyUrl string `env:"PROXY_URL" envDefault:""`
}

type Mail struct {
	Host     string `env:"MAIL_HOST" envDefault:""`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	Address  string `env:"MAIL_ADDRESS" envDefault:""`
	Password string `env:"MAIL_PASSWORD" envDefault:""`
	ExportTo string `env:"MAIL_EXPORT_TO" envDefault:""`
}

type Jobs struct {
	BackupInterval time.Duration `env:"BACKUP_INTERVAL" envDefault:"1h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
