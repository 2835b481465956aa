package database

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thanhyclinic/schedule_backend/config"
)

func TestDSNParsesWithEmptyPassword(t *testing.T) {
	cfg := FromCentralConfig(config.DatabaseConfig{
		Host:   "db.internal",
		Port:   5433,
		User:   "clinic",
		DBName: "schedule",
	})

	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	cc := pcfg.ConnConfig
	if cc.Host != "db.internal" || cc.Port != 5433 {
		t.Errorf("host/port = %s:%d", cc.Host, cc.Port)
	}
	if cc.Database != "schedule" {
		t.Errorf("database = %q, want schedule", cc.Database)
	}
	if cc.Password != "" {
		t.Errorf("password = %q, want empty", cc.Password)
	}
}

func TestQuoteEscapes(t *testing.T) {
	tests := map[string]string{
		"":        "''",
		"plain":   "'plain'",
		"it's":    `'it\'s'`,
		`back\sl`: `'back\\sl'`,
	}
	for in, want := range tests {
		if got := quote(in); got != want {
			t.Errorf("quote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDurations(t *testing.T) {
	var c Config
	if c.ConnMaxLifetime() != 5*time.Minute {
		t.Errorf("default lifetime = %v", c.ConnMaxLifetime())
	}
	if c.SlowQueryThreshold() != 200*time.Millisecond {
		t.Errorf("default threshold = %v", c.SlowQueryThreshold())
	}
	c.ConnMaxLifetimeMin = 2
	c.SlowQueryThresholdMs = 50
	if c.ConnMaxLifetime() != 2*time.Minute || c.SlowQueryThreshold() != 50*time.Millisecond {
		t.Error("configured durations not applied")
	}
}

func TestDatabaseNames(t *testing.T) {
	cfg := &config.Config{
		Database:       config.DatabaseConfig{DBName: "schedule"},
		CasbinDatabase: config.DatabaseConfig{DBName: "casbin"},
		Server:         config.ServerConfig{Databases: []string{"casbin", "", "reporting", "schedule"}},
	}

	got := databaseNames(cfg)
	want := []string{"schedule", "casbin", "reporting"}
	if len(got) != len(want) {
		t.Fatalf("databaseNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("databaseNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
