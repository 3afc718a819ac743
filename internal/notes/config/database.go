package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// PostgresConfig содержит настройки подключения к базе данных заметок.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"NOTES_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"NOTES_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"NOTES_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"NOTES_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"NOTES_POSTGRES_DB" env-default:"notes"`
	SSLMode  string `yaml:"ssl_mode" env:"NOTES_POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn  int    `yaml:"min_conn" env:"NOTES_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"NOTES_POSTGRES_MAX_CONN" env-default:"10"`

	MigrationsDir string `yaml:"migrations_dir" env:"NOTES_MIGRATIONS_DIR" env-default:"migrations/notes"`
}

// GetDSN возвращает строку подключения к Postgres для pgx.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL подключения для golang-migrate.
// Учетные данные экранируются.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}
