package validation

import (
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// StructValidator wraps go-playground/validator for the purely
// structural, non-ordered checks this package needs - required fields,
// oneof membership, string length - following the same wrapping pattern
// as internal/validation/validator.go in the teacher repo. It is used by
// the market-data and instrument-router request shapes (see
// marketdata_request.go); the price/quantity/TIF business rules of spec
// section 4.1 are intentionally hand-written in placement.go because
// go-playground/validator reports an unordered bag of failures and
// cannot express "return only the first violation in documented order",
// nor does it have access to per-instrument tick/min/max configuration.
type StructValidator struct {
	v *playground.Validate
}

// NewStructValidator builds a validator with json-tag field naming, the
// same convention the teacher's wrapper registers.
func NewStructValidator() *StructValidator {
	v := playground.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{v: v}
}

// Validate runs struct-tag validation and flattens failures into a
// single error, mirroring the teacher's formatValidationError helper.
func (s *StructValidator) Validate(i interface{}) error {
	if err := s.v.Struct(i); err != nil {
		if verrs, ok := err.(playground.ValidationErrors); ok {
			messages := make([]string, 0, len(verrs))
			for _, e := range verrs {
				messages = append(messages, fmt.Sprintf("%s failed on %q", e.Field(), e.Tag()))
			}
			return fmt.Errorf("%s", strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}
