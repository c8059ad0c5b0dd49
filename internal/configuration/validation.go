package configuration

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Validate checks config against the validate tags on its fields and logs
// every violation. The returned error says only that validation failed;
// the details go to the log.
func Validate(config SimrigConfig) error {
	err := validator.New().Struct(config)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.WithStack(err)
	}
	for _, fieldError := range validationErrors {
		field := stripStructName(fieldError.Namespace())
		if fieldError.Tag() == "required" {
			log.Errorf("ConfigError: Field %s is required but was not found", field)
		} else {
			log.Errorf("ConfigError: Field %s has invalid value %v: %s", field, fieldError.Value(), fieldError.Tag())
		}
	}
	return errors.Errorf("configuration failed validation")
}

func stripStructName(namespace string) string {
	if parts := strings.SplitN(namespace, ".", 2); len(parts) == 2 {
		return parts[1]
	}
	return namespace
}
