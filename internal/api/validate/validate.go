package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ActivityName validates a submitted activity name. Names are free-form
// labels; we only reject empty/oversized values and surrounding whitespace
// (names are matched exactly, so stray spaces would split a series).
func ActivityName(v string) error {
	if v == "" {
		return fmt.Errorf("name is required")
	}
	if len(v) > 100 {
		return fmt.Errorf("name exceeds 100 characters")
	}
	if strings.TrimSpace(v) != v {
		return fmt.Errorf("name must not have leading or trailing spaces")
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// Password enforces a minimal length only; strength policy is out of scope.
func Password(v string) error {
	if len(v) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(v) > 128 {
		return fmt.Errorf("password exceeds 128 characters")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
