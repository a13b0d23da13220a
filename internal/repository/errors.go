package repository

import (
	"errors"
	"fmt"

	"chiblets_lite/internal/game"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = fmt.Errorf("%w: record", game.ErrNotFound)

// mapErr translates driver errors into the game error kinds.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, game.ErrNotFound), errors.Is(err, game.ErrTransient):
		return err
	}
	return fmt.Errorf("%w: %w", game.ErrTransient, err)
}
