package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

//nolint:gochecknoglobals // Shared validator instance, safe for concurrent use
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("hexaddr", func(fl validator.FieldLevel) bool {
			return common.IsHexAddress(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the configuration and returns a CONFIG_INVALID error whose
// details name every offending field.
func Validate(cfg *Config) error {
	details := make(map[string]string)

	if err := getValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return mipderr.WithMessage(mipderr.ErrConfigInvalid, mipderr.ErrConfigInvalid.Message, err)
		}
		for _, fe := range fieldErrs {
			details[fe.Namespace()] = describe(fe)
		}
	}

	seen := make(map[string]int, len(cfg.Wallets))
	for i, w := range cfg.Wallets {
		key := strings.ToLower(strings.TrimSpace(w.Name))
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			details[fmt.Sprintf("Config.Wallets[%d].Name", i)] = fmt.Sprintf("duplicates wallets[%d]", first)
			continue
		}
		seen[key] = i
	}

	if len(details) == 0 {
		return nil
	}
	return mipderr.WithDetails(mipderr.ErrConfigInvalid, details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a URL"
	case "hexaddr":
		return fmt.Sprintf("%q is not a hex address", fe.Value())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
}
