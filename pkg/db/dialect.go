package db

import (
	"fmt"
	"strings"

	puresqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultSQLitePath = "invoicing.db"

// Dialect picks the gorm driver for cfg.Type. "sqlite" uses the cgo driver,
// "sqlite-pure" the pure Go one for builds without cgo.
func Dialect(cfg Config) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "postgres":
		return postgres.Open(postgresDSN(cfg)), nil
	case "mysql":
		return mysql.Open(mysqlDSN(cfg)), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg.Path, "_busy_timeout=5000&_foreign_keys=on")), nil
	case "sqlite-pure":
		return puresqlite.Open(sqliteDSN(cfg.Path, "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
}

func postgresDSN(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

func mysqlDSN(cfg Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

func sqliteDSN(path, params string) string {
	if path == "" {
		path = defaultSQLitePath
	}
	if strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?" + params
}
