package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Phone numbers: optional leading +, then 7 to 15 digits with spaces or dashes
	PhonePattern = `^\+?[0-9][0-9 \-]{6,18}[0-9]$`

	// Password min length
	PasswordMinLength = 6

	// Name validation min/max length
	NameMinLength = 1
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// RegisterCustomRules adds the project's validation tags to a validator and makes
// error field names follow the json or form tag of the struct field.
func RegisterCustomRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	return v.RegisterValidation("phone", phone)
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// notBlank fails for strings that are empty after trimming whitespace
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return !field.IsZero()
	}
	return strings.TrimSpace(field.String()) != ""
}

func phone(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return CompiledPatterns.Phone.MatchString(value)
}

// IsValidPhone reports whether a phone number has an acceptable shape
func IsValidPhone(value string) bool {
	return CompiledPatterns.Phone.MatchString(strings.TrimSpace(value))
}
