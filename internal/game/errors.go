package game

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete error below wraps exactly one of them so
// callers can branch with errors.Is on the kind.
var (
	ErrValidation = errors.New("validation failed")
	ErrDomainRule = errors.New("domain rule violated")
	ErrNotFound   = errors.New("not found")
	ErrTransient  = errors.New("temporarily unavailable")
)

var (
	ErrMaxLevelReached        = fmt.Errorf("%w: max level reached", ErrDomainRule)
	ErrInsufficientExperience = fmt.Errorf("%w: insufficient experience", ErrDomainRule)
	ErrRarityMismatch         = fmt.Errorf("%w: chiblets must share rarity", ErrDomainRule)
	ErrCannotFuseTopTier      = fmt.Errorf("%w: top tier cannot be fused", ErrDomainRule)
	ErrInsufficientFunds      = fmt.Errorf("%w: insufficient funds", ErrDomainRule)
	ErrNoEnergy               = fmt.Errorf("%w: no energy", ErrDomainRule)
	ErrTeamTooWeak            = fmt.Errorf("%w: team too weak", ErrDomainRule)
	ErrDailySpinLimit         = fmt.Errorf("%w: daily spin limit reached", ErrDomainRule)
	ErrTeamFull               = fmt.Errorf("%w: active team is full", ErrDomainRule)
	ErrCollectionFull         = fmt.Errorf("%w: chiblet collection is full", ErrDomainRule)
	ErrMaxStageReached        = fmt.Errorf("%w: max stage reached", ErrDomainRule)
	ErrChibletFainted         = fmt.Errorf("%w: chiblet has no hp", ErrDomainRule)
	ErrTaskAlreadyClaimed     = fmt.Errorf("%w: task already claimed", ErrDomainRule)
	ErrTaskNotCompleted       = fmt.Errorf("%w: task not completed", ErrDomainRule)
	ErrTaskInactive           = fmt.Errorf("%w: task is not active", ErrDomainRule)
	ErrNoOpponent             = fmt.Errorf("%w: no opponent available", ErrNotFound)
	ErrNoSpeciesForRarity     = fmt.Errorf("%w: no species for rarity", ErrNotFound)

	ErrEmptyTeam     = fmt.Errorf("%w: team is empty", ErrValidation)
	ErrSameChiblet   = fmt.Errorf("%w: cannot fuse a chiblet with itself", ErrValidation)
	ErrUnknownRarity = fmt.Errorf("%w: unknown rarity", ErrValidation)
	ErrInvalidName   = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrNotOwner      = fmt.Errorf("%w: chiblet belongs to another user", ErrValidation)
	ErrSelfBattle    = fmt.Errorf("%w: cannot battle own chiblet", ErrValidation)
)
