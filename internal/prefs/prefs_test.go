package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := Load("")
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.CardWidth != DefaultCardWidth {
		t.Fatalf("CardWidth = %d, want %d", p.CardWidth, DefaultCardWidth)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "bookshelf")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Gruvbox\"\ncard_width = 32\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Gruvbox" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Gruvbox")
	}
	if p.CardWidth != 32 {
		t.Fatalf("CardWidth = %d, want 32", p.CardWidth)
	}
}

func TestLoad_ClampsCardWidth(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("card_width = 500\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.CardWidth != MaxCardWidth {
		t.Fatalf("CardWidth = %d, want %d", p.CardWidth, MaxCardWidth)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Kanagawa", CardWidth: 24}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.Theme != "Kanagawa" || loaded.CardWidth != 24 {
		t.Fatalf("loaded = %#v, want Kanagawa/24", loaded)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(prefsFile); p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(prefsFile); p != Default() {
		t.Fatalf("prefs = %#v, want defaults", p)
	}
}

func TestLoad_UnopenablePathFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	notDir := filepath.Join(tmp, "file")
	if err := os.WriteFile(notDir, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(filepath.Join(notDir, "prefs.toml")); p != Default() {
		t.Fatalf("prefs = %#v, want defaults", p)
	}
}

func TestClampCardWidth(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, MinCardWidth},
		{MinCardWidth, MinCardWidth},
		{30, 30},
		{MaxCardWidth + 1, MaxCardWidth},
	}
	for _, tc := range cases {
		if got := ClampCardWidth(tc.in); got != tc.want {
			t.Fatalf("ClampCardWidth(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
