package notes

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	titleRules   = fmt.Sprintf("required,max=%d", MaxTitleLength)
	contentRules = "required"
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (in NoteInput) Validate() error {
	if err := validateField("title", in.Title, titleRules); err != nil {
		return err
	}
	return validateField("content", in.Content, contentRules)
}

func (p NotePatch) Validate() error {
	if p.Title != nil {
		if err := validateField("title", *p.Title, titleRules); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := validateField("content", *p.Content, contentRules); err != nil {
			return err
		}
	}
	return nil
}

func validateField(name string, value string, rules string) error {
	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("error validating %s: %w", name, err)
	}

	switch fe := fieldErrs[0]; fe.Tag() {
	case "required":
		return &ValidationError{Field: name, Message: fmt.Sprintf("%s is required", name)}
	case "max":
		return &ValidationError{Field: name, Message: fmt.Sprintf("%s cannot be more than %s characters", name, fe.Param())}
	default:
		return &ValidationError{Field: name, Message: fmt.Sprintf("%s is invalid", name)}
	}
}
