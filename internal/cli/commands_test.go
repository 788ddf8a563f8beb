package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emiliopalmerini/mreport/internal/domain"
)

func writePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 6))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write png: %v", err)
	}
	return path
}

func TestSubmitCommand(t *testing.T) {
	board, srv := newFakeBoard(t)
	setupEnv(t, srv)

	out, err := runCommand(t, "", "submit", "--title", "Crash", "--description", "App crashes on load", "--category", "feedback")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(out, domain.MessageSent) {
		t.Errorf("unexpected output %q", out)
	}

	cards := board.Cards()
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	card := cards[0]
	if card["name"] != "Crash" || card["idList"] != "list-feedback" || card["key"] != "key" || card["token"] != "token" {
		t.Errorf("unexpected card fields %v", card)
	}
	if !strings.HasPrefix(card["desc"], "### Details\nApp crashes on load\n\n### Extra Info\nApplication Version: 1.4.2\n") {
		t.Errorf("unexpected description %q", card["desc"])
	}
}

func TestSubmitCommand_Screenshot(t *testing.T) {
	board, srv := newFakeBoard(t)
	setupEnv(t, srv)

	out, err := runCommand(t, "", "submit", "-t", "Layout", "-d", "See image", "--screenshot", writePNG(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(out, domain.MessageSentScreenshot) {
		t.Errorf("unexpected output %q", out)
	}

	img, err := png.Decode(bytes.NewReader(board.Attachment("card1")))
	if err != nil {
		t.Fatalf("attachment is not a PNG: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}

func TestSubmitCommand_DescriptionFromStdin(t *testing.T) {
	board, srv := newFakeBoard(t)
	setupEnv(t, srv)

	if _, err := runCommand(t, "typed on stdin\n", "submit", "-t", "Crash", "-d", "-"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	cards := board.Cards()
	if len(cards) != 1 || !strings.HasPrefix(cards[0]["desc"], "### Details\ntyped on stdin\n\n### Extra Info") {
		t.Errorf("unexpected cards %v", cards)
	}
}

func TestSubmitCommand_Failures(t *testing.T) {
	tests := []struct {
		name       string
		failCreate bool
		args       []string
		wantOut    string
	}{
		{"validation", false, []string{"submit", "-t", "Crash"}, domain.MessageValidationFailed},
		{"board rejects card", true, []string{"submit", "-t", "Crash", "-d", "Broken"}, domain.MessageSendFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, srv := newFakeBoard(t)
			board.failCreate = tt.failCreate
			setupEnv(t, srv)

			out, err := runCommand(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("expected %q in output, got %q", tt.wantOut, out)
			}
		})
	}
}

func TestSubmitCommand_UnknownCategory(t *testing.T) {
	_, srv := newFakeBoard(t)
	setupEnv(t, srv)

	_, err := runCommand(t, "", "submit", "-t", "a", "-d", "b", "-c", "praise")
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("expected unknown category error, got %v", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	_, srv := newFakeBoard(t)
	setupEnv(t, srv)

	out, err := runCommand(t, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No submissions recorded") {
		t.Errorf("unexpected empty output %q", out)
	}

	if _, err := runCommand(t, "", "submit", "-t", "Crash", "-d", "Broken"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := runCommand(t, "", "submit", "-t", "Idea", "-d", "Dark mode", "-c", "feedback"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, err = runCommand(t, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "Crash") || !strings.Contains(out, "Idea") || !strings.Contains(out, "card1") {
		t.Errorf("unexpected history output %q", out)
	}

	out, err = runCommand(t, "", "history", "--category", "feedback")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Contains(out, "Crash") || !strings.Contains(out, "Idea") {
		t.Errorf("unexpected filtered output %q", out)
	}

	out, err = runCommand(t, "", "history", "prune", "--older-than", "1h")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !strings.Contains(out, "Deleted 0 records") {
		t.Errorf("unexpected prune output %q", out)
	}
}

func TestSubmitCommand_NoHistory(t *testing.T) {
	_, srv := newFakeBoard(t)
	setupEnv(t, srv)

	if _, err := runCommand(t, "", "submit", "-t", "Crash", "-d", "Broken", "--no-history"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	out, err := runCommand(t, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No submissions recorded") {
		t.Errorf("expected empty history, got %q", out)
	}
}

func TestMigrateCommand(t *testing.T) {
	_, srv := newFakeBoard(t)
	setupEnv(t, srv)

	out, err := runCommand(t, "", "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "Current version: 0") || !strings.Contains(out, "Migrated to version 1") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCommand(t, "", "migrate", "0")
	if err != nil {
		t.Fatalf("migrate 0: %v", err)
	}
	if !strings.Contains(out, "Migrating down to version 0") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := runCommand(t, "", "migrate", "abc"); err == nil {
		t.Error("expected invalid version error")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("a longer title", 6); got != "a lon…" {
		t.Errorf("unexpected %q", got)
	}
}
