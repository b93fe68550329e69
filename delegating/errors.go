package delegating

import (
	"fmt"

	"github.com/datatrails/go-keri/kerierr"
)

func errValidation(msg string) error {
	return fmt.Errorf("%s: %w", msg, kerierr.ErrValidation)
}

func errDatabase(msg string) error {
	return fmt.Errorf("%s: %w", msg, kerierr.ErrDatabase)
}
