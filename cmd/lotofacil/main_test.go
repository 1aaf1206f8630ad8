package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/lotofacil/internal/config"
	"github.com/verte-zerg/lotofacil/internal/generator"
)

func TestParsePlayArg(t *testing.T) {
	play, err := parsePlayArg("15,14,13,12,11,10,9,8,7,6,5,4,3,2,1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if play[0] != 1 || play[14] != 15 {
		t.Fatalf("expected sorted play, got %v", play)
	}
	if _, err := parsePlayArg("1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16"); err != nil {
		t.Fatalf("space separated 16-number play: %v", err)
	}
	if _, err := parsePlayArg("1,2,3"); err == nil {
		t.Fatalf("expected short play to fail")
	}
	if _, err := parsePlayArg("1,2,3,4,5,6,7,8,9,10,11,12,13,14,x"); err == nil {
		t.Fatalf("expected non-numeric play to fail")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Generate.Alpha != nil || cfg.History.DB != nil {
		t.Fatalf("template values must stay commented out")
	}
}

func TestApplyGenerateConfigFlagsWin(t *testing.T) {
	cfg := generator.DefaultConfig()
	cmd := &cobra.Command{Use: "generate"}
	cmd.Flags().IntVar(&cfg.Plays, "plays", cfg.Plays, "")
	cmd.Flags().IntVar(&cfg.Sum.Min, "sum-min", cfg.Sum.Min, "")
	if err := cmd.Flags().Set("plays", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	plays, sumMin, distinct := 3, 160, true
	applyGenerateConfig(cmd, config.GenerateConfig{Plays: &plays, SumMin: &sumMin, Distinct: &distinct}, &cfg)

	if cfg.Plays != 7 {
		t.Fatalf("flag should win over file, got plays=%d", cfg.Plays)
	}
	if cfg.Sum.Min != 160 || !cfg.RequireDistinct {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Sum.Max != generator.DefaultConfig().Sum.Max {
		t.Fatalf("unset values must keep defaults")
	}
}
