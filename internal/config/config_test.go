package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
insales:
  base_url: https://shop.example.ru
  api_key: key
  password: secret
  retry_delay: 500ms
layout:
  keywords_data_start: 30
  markers:
    products: ["ТОВАРЫ", "ITEMS"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.InSales.BaseURL != "https://shop.example.ru" || cfg.InSales.APIKey != "key" {
		t.Errorf("insales section not loaded: %+v", cfg.InSales)
	}
	if cfg.InSales.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %s", cfg.InSales.RetryDelay)
	}
	if cfg.InSales.PerPage != 250 || cfg.InSales.MaxCategoryPages != 10 || cfg.InSales.MaxItemPages != 20 {
		t.Errorf("pagination defaults not applied: %+v", cfg.InSales)
	}
	if cfg.OpenAI.PollInterval != 3*time.Second || cfg.OpenAI.MaxPolls != 40 {
		t.Errorf("openai defaults not applied: %+v", cfg.OpenAI)
	}
	if cfg.Layout.KeywordsStart != 30 || cfg.Layout.KeywordColumn != 2 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if len(cfg.Layout.Markers.Products) != 2 || cfg.Layout.Markers.Products[1] != "ITEMS" {
		t.Errorf("product markers = %v", cfg.Layout.Markers.Products)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("insales:\n  per_page: 500\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for per_page")
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, Name: "n", User: "u", Password: "p"}
	want := "host=db port=5433 user=u password=p dbname=n sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
