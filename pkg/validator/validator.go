package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Layouts accepted by the meeting_date and meeting_time tags
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("meeting_date", layoutValidator(dateLayout))
	_ = v.RegisterValidation("meeting_time", layoutValidator(timeLayout))
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Var validates a single value against a tag, e.g. "omitempty,min=300,max=7200"
func (cv *CustomValidator) Var(field interface{}, tag string) error {
	return cv.v.Var(field, tag)
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}
