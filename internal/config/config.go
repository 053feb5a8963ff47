package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	// Upstream backend receiving the decision callback.
	BackendURL string
	// Base URL bare media keys resolve against (empty = URL-only flow).
	StorageBaseURL string

	CallbackTimeoutSecs int
	FetchTimeoutSecs    int

	// Minutes between scheduled ledger verifications; 0 disables.
	LedgerVerifyMins int

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		AppPort:   getenv("APP_PORT", "8081"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "validator"),
		MySQLUser: getenv("MYSQL_USER", "validator"),
		MySQLPass: getenv("MYSQL_PASS", "validator"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: getenv("REDIS_PASSWORD", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		BackendURL:     getenv("BACKEND_URL", "http://localhost:3000"),
		StorageBaseURL: getenv("STORAGE_BASE_URL", ""),

		CallbackTimeoutSecs: getenvInt("CALLBACK_TIMEOUT_SECONDS", 30),
		FetchTimeoutSecs:    getenvInt("FETCH_TIMEOUT_SECONDS", 20),
		LedgerVerifyMins:    getenvInt("LEDGER_VERIFY_INTERVAL_MINUTES", 10),
		IdempTTLSecs:        getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.BackendURL == "" {
		return errors.New("missing BACKEND_URL")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; multiStatements=true is handy for migrations
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
