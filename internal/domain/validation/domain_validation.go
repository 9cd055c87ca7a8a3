// Package validation is the catalogue of invariant checks shared by every
// aggregate. Each rule is a pure function that returns nil or an
// *exception.EntityValidationError whose message is fixed per rule.
package validation

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oksasatya/go-managebooks/internal/domain/exception"
)

const minYear = 1900

var emailPattern = regexp.MustCompile(`(?i)^\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b$`)

// NotNull fails when target is nil, including typed nil pointers, maps and slices.
func NotNull(target any, fieldName string) error {
	if isNil(target) {
		return exception.NewEntityValidation(fmt.Sprintf("%s should not be null", fieldName))
	}
	return nil
}

// NotNullOrEmpty fails when target is empty or only whitespace.
func NotNullOrEmpty(target string, fieldName string) error {
	if strings.TrimSpace(target) == "" {
		return exception.NewEntityValidation(fmt.Sprintf("%s should not be empty or null", fieldName))
	}
	return nil
}

// MaxLength counts runes, not bytes.
func MaxLength(target string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(target) > maxLength {
		return exception.NewEntityValidation(
			fmt.Sprintf("%s should not be greater than %d characters long", fieldName, maxLength),
		)
	}
	return nil
}

func MinLength(target string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(target) < minLength {
		return exception.NewEntityValidation(
			fmt.Sprintf("%s should not be less than %d characters long", fieldName, minLength),
		)
	}
	return nil
}

func ValidEmail(target string, fieldName string) error {
	if !emailPattern.MatchString(target) {
		return exception.NewEntityValidation(fmt.Sprintf("%s should be a valid email", fieldName))
	}
	return nil
}

// ValidYear checks target against the current calendar year of the wall clock.
func ValidYear(target int, fieldName string) error {
	return ValidYearAt(target, time.Now(), fieldName)
}

// ValidYearAt is ValidYear with an explicit "now".
func ValidYearAt(target int, now time.Time, fieldName string) error {
	if target < minYear || target > now.Year() {
		return exception.NewEntityValidation(fmt.Sprintf("%s should be a valid year", fieldName))
	}
	return nil
}

func MaxValue(target int, maxValue int, fieldName string) error {
	if target > maxValue {
		return exception.NewEntityValidation(
			fmt.Sprintf("%s should not be greater than %d value", fieldName, maxValue),
		)
	}
	return nil
}

func MinValue(target int, minValue int, fieldName string) error {
	if target < minValue {
		return exception.NewEntityValidation(
			fmt.Sprintf("%s should not be less than %d value", fieldName, minValue),
		)
	}
	return nil
}

// ExistsFunc reports whether value is already taken by a persisted record.
type ExistsFunc func(ctx context.Context, value string) (bool, error)

// IsUnique delegates the lookup to exists. Lookup failures are returned as-is
// so callers can tell infrastructure errors from a violated invariant.
// The caller owns whatever transaction keeps the answer valid until commit.
func IsUnique(ctx context.Context, value string, fieldName string, exists ExistsFunc) error {
	if exists == nil {
		return fmt.Errorf("validation: no existence check for %s", fieldName)
	}
	taken, err := exists(ctx, value)
	if err != nil {
		return err
	}
	if taken {
		return exception.NewEntityValidation(fmt.Sprintf("%s should be unique", fieldName))
	}
	return nil
}

func isNil(target any) bool {
	if target == nil {
		return true
	}
	v := reflect.ValueOf(target)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
