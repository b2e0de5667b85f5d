package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// ISODatePattern is the YYYY-MM-DD shape of a Gregorian date
	ISODatePattern = `^\d{4}-\d{2}-\d{2}$`

	isoDate = regexp.MustCompile(ISODatePattern)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// FieldError is one failing field, named by its form/json tag
type FieldError struct {
	Field string
	Tag   string
}

// Validator returns the shared validator with the application's custom rules.
// Field names are reported by their `form` (or `json`) tag.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("isodate", validateISODate)
		instance = v
	})
	return instance
}

// Struct validates obj and flattens the failures
func Struct(obj interface{}) ([]FieldError, error) {
	err := Validator().Struct(obj)
	if err == nil {
		return nil, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out, nil
}

// validateISODate accepts an empty value (left to `required`) or a real calendar date
func validateISODate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if !isoDate.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
