package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"canteenbooks/internal/domain"
)

var (
	reQ      = regexp.MustCompile(`^[\p{L}\p{N} _'.&-]{1,50}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reTypeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,30}$`)

	v = validator.New(validator.WithRequiredStructEnabled())
)

// ProductID trims and upper-cases a product code.
func ProductID(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s != "" && reID.MatchString(s)
}

// ID validates a record identifier taken from a path.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// TypeID validates an expense type id (max 30 chars).
func TypeID(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reTypeID.MatchString(s)
}

// Text trims and escapes free text and enforces 1..max characters.
func Text(s string, max int) (string, bool) {
	s = domain.Sanitize(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return "", false
	}
	return s, true
}

// Name validates a displayable name (products, buyers, mpesa clients).
func Name(s string) (string, bool) { return Text(s, 100) }

// Label validates an expense type label.
func Label(s string) (string, bool) { return Text(s, 100) }

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 50 {
		s = string([]rune(s)[:50])
	}
	return s, reQ.MatchString(s)
}

// Struct runs the `validate` tags on a request body and reports the first
// failing field as a domain.ValidationError.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return domain.Invalid(lowerFirst(fe.Field()), "failed "+fe.Tag()+ruleParam(fe.Param()))
	}
	return domain.Invalid("body", err.Error())
}

func ruleParam(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
