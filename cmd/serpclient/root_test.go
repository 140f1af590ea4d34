package main

import (
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serpclient" {
			t.Errorf("expected use 'serpclient', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{name: "verbose", shorthand: "v", defValue: "false"},
			{name: "config", shorthand: "c", defValue: ""},
			{name: "backend", shorthand: "b", defValue: "http://127.0.0.1:5000"},
			{name: "timeout", shorthand: "t", defValue: "1m0s"},
			{name: "proxy", defValue: ""},
			{name: "strict", defValue: "false"},
			{name: "metrics-file", defValue: ""},
			{name: "log-json", defValue: "false"},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		want := []string{"catalog", "results", "scrape", "interactive", "history", "status", "init", "version"}
		got := map[string]bool{}
		for _, sub := range cmd.Commands() {
			got[sub.Name()] = true
		}
		for _, name := range want {
			if !got[name] {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})
}
