package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Letters (including accented ones), spaces and common name punctuation.
var fullNameRe = regexp.MustCompile(`^[\p{L}]+(?:[ .'\-][\p{L}]+)*$`)

func init() {
	_ = v.RegisterValidation("strongpwd", strongPassword)
	_ = v.RegisterValidation("fullname", fullName)
}

// strongPassword enforces: at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func strongPassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if len(pwd) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pwd {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func fullName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return len(name) >= 3 && fullNameRe.MatchString(name)
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
