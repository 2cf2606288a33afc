package validate

import (
	"strings"
	"testing"
)

func TestActivityName(t *testing.T) {
	valid := []string{"Run", "Morning swim", "yoga-2", "Piano practice"}
	for _, v := range valid {
		if err := ActivityName(v); err != nil {
			t.Errorf("ActivityName(%q): unexpected error %v", v, err)
		}
	}

	invalid := []string{"", " Run", "Run ", strings.Repeat("x", 101)}
	for _, v := range invalid {
		if err := ActivityName(v); err == nil {
			t.Errorf("ActivityName(%q): expected error", v)
		}
	}
}

func TestEmail(t *testing.T) {
	if err := Email("a@b.com"); err != nil {
		t.Errorf("Email valid: %v", err)
	}
	for _, v := range []string{"", "nope", "a@b", "a b@c.com"} {
		if err := Email(v); err == nil {
			t.Errorf("Email(%q): expected error", v)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("longenough"); err != nil {
		t.Errorf("Password valid: %v", err)
	}
	if err := Password("short"); err == nil {
		t.Error("Password short: expected error")
	}
	if err := Password(strings.Repeat("x", 129)); err == nil {
		t.Error("Password oversized: expected error")
	}
}
