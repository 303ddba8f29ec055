package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrub/internal/domain/lexicon"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return Config{
		Input:     input,
		Output:    filepath.Join(dir, "out.mp4"),
		Lexicon:   lexicon.Default(),
		PhraseGap: 2.0,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty input", mutate: func(c *Config) { c.Input = "" }, wantErr: "input is empty"},
		{name: "missing input", mutate: func(c *Config) { c.Input = "/does/not/exist.mp4" }, wantErr: "stat input"},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }, wantErr: "output is empty"},
		{name: "negative padding", mutate: func(c *Config) { c.Padding = -1 }, wantErr: "padding"},
		{name: "negative merge gap", mutate: func(c *Config) { c.MergeGap = -1 }, wantErr: "merge gap"},
		{name: "zero phrase gap", mutate: func(c *Config) { c.PhraseGap = 0 }, wantErr: "phrase gap"},
		{name: "nil lexicon", mutate: func(c *Config) { c.Lexicon = nil }, wantErr: "lexicon"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t)
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFindSiblingSubs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	if got := findSiblingSubs(input); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}

	vtt := filepath.Join(dir, "movie.vtt")
	if err := os.WriteFile(vtt, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := findSiblingSubs(input); got != vtt {
		t.Fatalf("expected %q, got %q", vtt, got)
	}

	// SRT wins over VTT when both exist.
	srt := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(srt, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := findSiblingSubs(input); got != srt {
		t.Fatalf("expected %q, got %q", srt, got)
	}
}

func TestFindSiblingSubs_LanguageTagged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mp4")
	enSRT := filepath.Join(dir, "movie.en.srt")
	if err := os.WriteFile(enSRT, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := findSiblingSubs(input); got != enSRT {
		t.Fatalf("expected %q, got %q", enSRT, got)
	}
}
