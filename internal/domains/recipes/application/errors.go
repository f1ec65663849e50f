package application

import (
	"errors"
	"fmt"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid recipe input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrBlankDescription) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
