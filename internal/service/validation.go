package service

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"beanthere/internal/domain"
)

// validationError converts ozzo-validation output into a domain
// ValidationError. Message is the first failing field's message, in field
// order, so single-message UIs show something stable.
func validationError(err error, order ...string) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(fieldErrs))
	for name, fe := range fieldErrs {
		fields[name] = fe.Error()
	}

	return &domain.ValidationError{Message: firstMessage(fields, order), Fields: fields}
}

func firstMessage(fields map[string]string, order []string) string {
	for _, name := range order {
		if msg, ok := fields[name]; ok {
			return msg
		}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "validation failed"
	}
	return fields[names[0]]
}
