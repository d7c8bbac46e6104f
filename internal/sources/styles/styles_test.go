package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otramalaga/civicmap/internal/logger"
)

const testYAML = `---
defaults:
  color: "#888888"
  icon: circle
categories:
  Medio Ambiente: "#4caf50"
  Urbanismo: "#795548"
tags:
  Huertos: leaf
`

func writeStyles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "styles.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(writeStyles(t, testYAML))
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(config.Categories) != 2 || len(config.Tags) != 1 {
		t.Errorf("config = %+v", config)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/styles.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadBrokenYAML(t *testing.T) {
	loader := NewLoader(writeStyles(t, "categories: [broken"))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with broken yaml should return error")
	}
}

func TestSheetLookups(t *testing.T) {
	sheet, err := LoadSheet(writeStyles(t, testYAML), logger.New("error", false))
	if err != nil {
		t.Fatalf("LoadSheet() error = %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact category", "Medio Ambiente", "#4caf50"},
		{"case and whitespace insensitive", "  medio ambiente ", "#4caf50"},
		{"unknown category gets configured default", "Desconocida", "#888888"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheet.CategoryColor(tt.query); got != tt.want {
				t.Errorf("CategoryColor(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}

	if got := sheet.TagIcon("huertos"); got != "leaf" {
		t.Errorf("TagIcon() = %q, want leaf", got)
	}
	if got := sheet.TagIcon("Movilidad"); got != "circle" {
		t.Errorf("TagIcon() default = %q, want circle", got)
	}
}

func TestSheetBuiltInDefaults(t *testing.T) {
	sheet, err := LoadSheet("", logger.New("error", false))
	if err != nil {
		t.Fatalf("LoadSheet() error = %v", err)
	}
	if got := sheet.CategoryColor("whatever"); got != DefaultColor {
		t.Errorf("CategoryColor() = %q, want built-in default", got)
	}
	if got := sheet.TagIcon("whatever"); got != DefaultIcon {
		t.Errorf("TagIcon() = %q, want built-in default", got)
	}
}

func TestSheetReload(t *testing.T) {
	sheet := NewSheet(&Config{Categories: map[string]string{"Urbanismo": "#111111"}})
	if got := sheet.CategoryColor("Urbanismo"); got != "#111111" {
		t.Fatalf("CategoryColor() = %q before reload", got)
	}

	sheet.Reload(&Config{Categories: map[string]string{"Movilidad": "#222222"}})

	if got := sheet.CategoryColor("Urbanismo"); got != DefaultColor {
		t.Errorf("stale entry survived reload: %q", got)
	}
	if got := sheet.CategoryColor("Movilidad"); got != "#222222" {
		t.Errorf("CategoryColor() = %q after reload", got)
	}
}
