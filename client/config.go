package client

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Config is the mutable part of a Client: where requests go and how
// long each may take.
type Config struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gte=0"`
}

// configFields maps Config's Go field names to the names reported in
// FieldError.
var configFields = map[string]string{
	"BaseURL": "baseURL",
	"Timeout": "timeout",
}

// configMessages overrides the stock English message for a tag.
var configMessages = map[string]string{
	"required": "must not be empty",
	"url":      "must be an absolute URL such as http://localhost:3000",
}

type configValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

var loadConfigValidator = sync.OnceValues(func() (*configValidator, error) {
	trans, _ := ut.New(en.New()).GetTranslator("en")

	v := validator.New()
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("registering validation messages: %w", err)
	}

	return &configValidator{v: v, trans: trans}, nil
})

// normalize strips surrounding space and trailing slashes from the
// base URL.
func (c Config) normalize() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	return c
}

// Validate reports every invalid field as a FieldErrors.
func (c Config) Validate() error {
	cv, err := loadConfigValidator()
	if err != nil {
		return err
	}

	err = cv.v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := configMessages[fe.Tag()]
		if !ok {
			msg = fe.Translate(cv.trans)
		}

		fields = append(fields, FieldError{Field: configFields[fe.StructField()], Err: msg})
	}

	return fields
}

// FieldError is one invalid Config field.
type FieldError struct {
	Field string
	Err   string
}

// FieldErrors lists every invalid Config field.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}
