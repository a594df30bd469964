package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/leadsift/peoplescan/internal/database"
	"github.com/leadsift/peoplescan/internal/model"
)

// seedHistoryDB creates a database with one stored scan and returns its dir.
func seedHistoryDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck

	result := model.NewSiteScanResult("example.com")
	result.NormalizedURL = "https://example.com"
	result.Meta.PagesScanned = 2
	result.People = []model.PersonRecord{{
		Name:  "Jane Doe",
		Title: "Chief Executive Officer",
		Email: "jane@example.com",
		Score: 15,
	}}
	result.Meta.PeopleExamined = 1
	result.DecisionMakers = result.People

	if _, err := db.SaveScanResult(context.Background(), result); err != nil {
		t.Fatalf("SaveScanResult() error = %v", err)
	}
	return dir
}

// runHistory executes the history command with the given args.
func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewHistoryCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// TestHistoryCmd tests stored scan listing.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("missing database errors", func(t *testing.T) {
		t.Parallel()

		if _, err := runHistory(t, "--db-dir", t.TempDir()); err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("lists scanned websites", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		output, err := runHistory(t, "--db-dir", dir)
		if err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(output, "example.com") {
			t.Errorf("unexpected output: %s", output)
		}
	})

	t.Run("shows site history", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		output, err := runHistory(t, "--db-dir", dir, "example.com")
		if err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(output, "pages=2") || !strings.Contains(output, "decision_makers=1") {
			t.Errorf("unexpected output: %s", output)
		}
	})

	t.Run("latest prints full report", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		output, err := runHistory(t, "--db-dir", dir, "--latest", "example.com")
		if err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(output, "Jane Doe") {
			t.Errorf("unexpected output: %s", output)
		}
	})

	t.Run("filters people by email domain", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		output, err := runHistory(t, "--db-dir", dir, "--email-domain", "Example.COM")
		if err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(output, "Jane Doe") || !strings.Contains(output, "jane@example.com") {
			t.Errorf("unexpected output: %s", output)
		}
	})

	t.Run("unknown email domain errors", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		if _, err := runHistory(t, "--db-dir", dir, "--email-domain", "never.example"); err == nil {
			t.Error("expected error for unknown email domain")
		}
	})

	t.Run("unknown website errors", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		if _, err := runHistory(t, "--db-dir", dir, "never.example"); err == nil {
			t.Error("expected error for unknown website")
		}
	})
}
