package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"photoshare/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, err := range verrs {
		errs[err.Field()] = err.Tag()
	}
	return errs
}

// Check wraps Validate into a domain.ErrValidation error so services can
// return it directly.
func Check(v interface{}) error {
	errs := Validate(v)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f, tag := range errs {
		fields = append(fields, f+"="+tag)
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(fields, ", "))
}
