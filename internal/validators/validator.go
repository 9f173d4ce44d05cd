package validators

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/go-playground/validator/v10"
)

// MsgAllFieldsRequired is returned when any required field is missing or empty
const MsgAllFieldsRequired = "All Fields are Required"

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z\d_ ]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex    = regexp.MustCompile(`^\d{10}$`)
)

// CustomValidator adapts go-playground/validator to echo.Validator and
// turns the first failing rule into a human-readable apperror.
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator builds the validator with the blog-specific tags registered
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool { return IsValidUsername(fl.Field().String()) })
	mustRegister(v, "password", func(fl validator.FieldLevel) bool { return IsStrongPassword(fl.Field().String()) })
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool { return IsValidEmail(fl.Field().String()) })
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool { return IsValidPhone(fl.Field().String()) })

	return &CustomValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate implements echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.Validation(err.Error())
	}

	// Presence is checked across every field before any format rule.
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return apperror.Validation(MsgAllFieldsRequired)
		}
	}

	return apperror.Validation(messageFor(i, fieldErrs[0]))
}

// messageFor reads the errmsg struct tag, formatted as "tag:message|tag:message".
func messageFor(i interface{}, fe validator.FieldError) string {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if f, ok := t.FieldByName(fe.StructField()); ok {
		for _, entry := range strings.Split(f.Tag.Get("errmsg"), "|") {
			tag, msg, found := strings.Cut(entry, ":")
			if found && tag == fe.Tag() {
				return msg
			}
		}
	}
	return "Invalid " + fe.Field()
}

// IsValidUsername accepts 3-20 letters, digits, underscores and spaces
func IsValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 3 && n <= 20 && usernameRegex.MatchString(s)
}

// IsValidEmail checks the loose local@domain.tld shape, case-insensitively
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(strings.ToLower(s))
}

// IsValidPhone accepts exactly ten digits
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsStrongPassword requires at least six characters from [A-Za-z0-9@$!%*?&]
// with at least one lowercase letter, one uppercase letter and one digit.
func IsStrongPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
		default:
			return false
		}
	}
	return lower && upper && digit
}
