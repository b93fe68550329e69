package counter

import "fmt"

func wrapf(msg string, kind error) error {
	return fmt.Errorf("%s: %w", msg, kind)
}
