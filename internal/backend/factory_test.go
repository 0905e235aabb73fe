package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger/memory"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:   "mongo",
		DataDir:       "seed",
		SQLiteDBPath:  "db.sqlite",
		MongoURI:      "mongodb://db:27017",
		MongoDatabase: "fintrack",
		MongoTimeout:  3 * time.Second,
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	want := Config{
		Type:          MongoBackend,
		SQLiteDBPath:  "db.sqlite",
		MongoURI:      "mongodb://db:27017",
		MongoDatabase: "fintrack",
		MongoTimeout:  3 * time.Second,
		DataDirectory: "seed",
	}
	if got != want {
		t.Errorf("FromAppConfig() = %+v, want %+v", got, want)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"mongo", Config{Type: MongoBackend, MongoURI: "mongodb://h", MongoDatabase: "d"}, false},
		{"mongo without uri", Config{Type: MongoBackend, MongoDatabase: "d"}, true},
		{"mongo without database", Config{Type: MongoBackend, MongoURI: "mongodb://h"}, true},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "memory" || got[1] != "sqlite" || got[2] != "mongo" {
		t.Errorf("unexpected backend types: %v", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(quietLogger())
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Backend.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", res.Backend)
	}
	if err := res.Ping(context.Background()); err != nil {
		t.Errorf("memory backend should always be ready: %v", err)
	}
	if err := res.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(quietLogger())
	res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db")})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close(ctx)

	if _, ok := res.Backend.(*storage.SQLiteRepository); !ok {
		t.Fatalf("expected sqlite repository, got %T", res.Backend)
	}
	if err := res.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	created, err := res.Backend.CreateBudget(ctx, core.Budget{Category: "Travel", Amount: 200, Month: "May"})
	if err != nil || created.ID == "" {
		t.Fatalf("CreateBudget: %+v %v", created, err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBackendResultNilSafe(t *testing.T) {
	var res *BackendResult
	if err := res.Close(context.Background()); err != nil {
		t.Fatalf("nil result Close: %v", err)
	}
}
