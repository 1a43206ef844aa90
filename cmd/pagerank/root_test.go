package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "pagerank <corpus-dir>" {
			t.Errorf("expected use 'pagerank <corpus-dir>', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has rank flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{name: "damping", shorthand: "d", defValue: "0.85"},
			{name: "samples", shorthand: "n", defValue: "100000"},
			{name: "threshold", defValue: "0.001"},
			{name: "max-iterations", defValue: "10000"},
			{name: "seed", defValue: "0"},
			{name: "chains", defValue: "1"},
			{name: "exclude-start", defValue: "false"},
			{name: "config", shorthand: "c", defValue: ""},
			{name: "json", shorthand: "j", defValue: "false"},
			{name: "markdown", shorthand: "m", defValue: "false"},
			{name: "output", shorthand: "o", defValue: ""},
			{name: "save", defValue: "false"},
			{name: "db-dir", defValue: ""},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected flag %q", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %q: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"history": false,
			"compare": false,
			"init":    false,
			"version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})
}

// TestCorpusArg tests that the root command takes exactly one argument.
func TestCorpusArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "no arguments", args: nil, wantErr: true},
		{name: "one argument", args: []string{"corpus0"}, wantErr: false},
		{name: "two arguments", args: []string{"corpus0", "corpus1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := corpusArg(NewRootCmd(), tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("corpusArg() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, errUsage) {
				t.Errorf("expected errUsage, got %v", err)
			}
			if !strings.Contains(err.Error(), "Usage: pagerank <corpus-dir>") {
				t.Errorf("expected usage line in error, got %q", err.Error())
			}
		})
	}
}

// TestRootCmdUsageError tests that running without a corpus fails before
// anything is ranked.
func TestRootCmdUsageError(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected errUsage, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no output, got %q", stdout.String())
	}
}
