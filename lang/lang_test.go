package lang

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	Load(filepath.Join(t.TempDir(), "absent.yml"))

	got := T("ticket_cooldown", "seconds", "42")
	if !strings.Contains(got, "42s") {
		t.Errorf("T(ticket_cooldown) = %q, want the substituted wait time", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang.yml")
	content := "ticket_closing: \"Shutting this one down.\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	Load(path)
	defer Load(filepath.Join(t.TempDir(), "absent.yml"))

	if got := T("ticket_closing"); got != "Shutting this one down." {
		t.Errorf("T(ticket_closing) = %q, want the override", got)
	}
	// Non-overridden keys keep their defaults.
	if got := T("price_cancelled"); !strings.Contains(got, "Cancelled") {
		t.Errorf("T(price_cancelled) = %q, want the default text", got)
	}
}

func TestTSubstitution(t *testing.T) {
	Load(filepath.Join(t.TempDir(), "absent.yml"))

	got := T("price_bad_range", "from", "Gold 1", "to", "Silver 2")
	if !strings.Contains(got, "Gold 1") || !strings.Contains(got, "Silver 2") {
		t.Errorf("T(price_bad_range) = %q, want both ranks echoed back", got)
	}
}

func TestTUnknownKey(t *testing.T) {
	Load(filepath.Join(t.TempDir(), "absent.yml"))

	if got := T("no_such_key"); got != "{no_such_key}" {
		t.Errorf("T(no_such_key) = %q, want the key wrapped in braces", got)
	}
}
