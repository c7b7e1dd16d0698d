package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearVoteEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_PORT", "RESULTS_PORT",
		"DB_HOST", "DB_PORT", "POSTGRES_DB", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_PASSWORD_FILE",
		"REDIS_HOST", "REDIS_PORT", "VOTE_QUEUE_KEY",
		"WORKER_CONNECT_BACKOFF", "WORKER_ERROR_BACKOFF",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearVoteEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.Host != "db" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db")
	}
	if cfg.Database.Name != "voting" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "voting")
	}
	if cfg.Database.User != "postgres" {
		t.Errorf("Database.User = %q, want %q", cfg.Database.User, "postgres")
	}
	if cfg.Redis.Host != "redis" {
		t.Errorf("Redis.Host = %q, want %q", cfg.Redis.Host, "redis")
	}
	if cfg.Redis.QueueKey != "votes" {
		t.Errorf("Redis.QueueKey = %q, want %q", cfg.Redis.QueueKey, "votes")
	}
	if cfg.Worker.ConnectBackoff != 2*time.Second {
		t.Errorf("Worker.ConnectBackoff = %v, want 2s", cfg.Worker.ConnectBackoff)
	}
	if cfg.Worker.ErrorBackoff != time.Second {
		t.Errorf("Worker.ErrorBackoff = %v, want 1s", cfg.Worker.ErrorBackoff)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestPasswordFileUsedWhenDirectValueAbsent(t *testing.T) {
	clearVoteEnv(t)

	passwordFile := filepath.Join(t.TempDir(), "pgpass")
	if err := os.WriteFile(passwordFile, []byte("s3cret\n"), 0o600); err != nil {
		t.Fatalf("failed to write password file: %v", err)
	}
	t.Setenv("POSTGRES_PASSWORD_FILE", passwordFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.Password != "s3cret" {
		t.Errorf("Database.Password = %q, want trimmed file content %q", cfg.Database.Password, "s3cret")
	}
}

func TestDirectPasswordWinsOverFile(t *testing.T) {
	clearVoteEnv(t)

	passwordFile := filepath.Join(t.TempDir(), "pgpass")
	if err := os.WriteFile(passwordFile, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("failed to write password file: %v", err)
	}
	t.Setenv("POSTGRES_PASSWORD", "direct")
	t.Setenv("POSTGRES_PASSWORD_FILE", passwordFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.Password != "direct" {
		t.Errorf("Database.Password = %q, want direct value to win", cfg.Database.Password)
	}
}

func TestMissingPasswordFileIsNotFatal(t *testing.T) {
	clearVoteEnv(t)
	t.Setenv("POSTGRES_PASSWORD_FILE", filepath.Join(t.TempDir(), "does-not-exist"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.Password != "" {
		t.Errorf("Database.Password = %q, want empty", cfg.Database.Password)
	}
}

func TestGetDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: "5432", Name: "voting",
		User: "postgres", Password: "pw", SSLMode: "disable",
	}
	want := "host=db port=5432 user=postgres password=pw dbname=voting sslmode=disable"
	if got := d.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}

func TestGetRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "redis", Port: "6379"}
	if got := r.GetRedisAddr(); got != "redis:6379" {
		t.Errorf("GetRedisAddr() = %q, want %q", got, "redis:6379")
	}
}

func TestValidateRejectsEmptyQueueKey(t *testing.T) {
	clearVoteEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.Redis.QueueKey = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted empty queue key")
	}
}
