package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/reftree/pkg/bonus"
	"github.com/matzehuels/reftree/pkg/growth"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Simulation != growth.DefaultConfig() {
		t.Errorf("Simulation = %+v, want %+v", cfg.Simulation, growth.DefaultConfig())
	}
	if cfg.Bonus != bonus.DefaultConfig() {
		t.Errorf("Bonus = %+v, want %+v", cfg.Bonus, bonus.DefaultConfig())
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.MaxDays != DefaultMaxDays || cfg.Server.MaxTopK != DefaultMaxTopK {
		t.Errorf("Server limits = %d/%d, want %d/%d", cfg.Server.MaxDays, cfg.Server.MaxTopK, DefaultMaxDays, DefaultMaxTopK)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeFile(t, `
[simulation]
capacity = 5

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Capacity != 5 {
		t.Errorf("Capacity = %d, want 5", cfg.Simulation.Capacity)
	}
	if cfg.Simulation.InitialReferrers != growth.DefaultInitialReferrers {
		t.Errorf("InitialReferrers = %v, want default", cfg.Simulation.InitialReferrers)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Bonus != bonus.DefaultConfig() {
		t.Errorf("Bonus = %+v, want defaults", cfg.Bonus)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[simulation\ncapacity = 5"},
		{"unknown key", "[simulation]\ncapacty = 5"},
		{"invalid capacity", "[simulation]\ncapacity = 0"},
		{"invalid increment", "[bonus]\nincrement = 0"},
		{"empty addr", "[server]\naddr = \"\""},
		{"zero max days", "[server]\nmax_days = 0"},
		{"negative max top k", "[server]\nmax_top_k = -1"},
		{"bonus step overflow", "[bonus]\nmax_bonus = 1e30\nincrement = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	cfg := Default()
	cfg.Bonus.MaxBonus = 2000
	cfg.Simulation.MaxDays = 365

	path := filepath.Join(t.TempDir(), "reftree.toml")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("Load(Save(cfg)) = %+v, want %+v", got, cfg)
	}
}

func TestAdoptionFunc(t *testing.T) {
	adopt := Default().Adoption.Func()
	if got := adopt(0); got != 0.01 {
		t.Errorf("adopt(0) = %v, want 0.01", got)
	}
	if got := adopt(1e9); got != 1 {
		t.Errorf("adopt(1e9) = %v, want 1", got)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reftree.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWrite(t *testing.T) {
	var buf strings.Builder
	if err := Write(&buf, Default()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, want := range []string{"[simulation]", "capacity = 10", "[bonus]", "[server]", `addr = ":8080"`, "max_days = 36500", "max_top_k = 1000"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
