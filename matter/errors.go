package matter

import (
	"fmt"

	"github.com/datatrails/go-keri/kerierr"
)

func errEmptyMaterial(msg string) error {
	return fmt.Errorf("%s: %w", msg, kerierr.ErrEmptyMaterial)
}

func errInvalidValue(msg string) error {
	return fmt.Errorf("%s: %w", msg, kerierr.ErrInvalidValue)
}

func errDeserialize(msg string) error {
	return fmt.Errorf("%s: %w", msg, kerierr.ErrDeserialize)
}
