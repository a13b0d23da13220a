package service

import (
	"context"
	"errors"
	"fmt"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/metrics"
	"chiblets_lite/internal/telegram"
)

// ErrUnauthorized covers every init data failure.
var ErrUnauthorized = errors.New("unauthorized")

type LoginResult struct {
	Token   string          `json:"token"`
	User    *domain.User    `json:"user"`
	Created bool            `json:"created"`
	Starter *domain.Chiblet `json:"starter,omitempty"`
}

type AuthService struct {
	*Deps
	verifier *telegram.Verifier
	tokens   *TokenIssuer
}

func NewAuthService(d *Deps, verifier *telegram.Verifier, tokens *TokenIssuer) *AuthService {
	return &AuthService{Deps: d, verifier: verifier, tokens: tokens}
}

// Login verifies Mini App init data and signs the player in.
func (s *AuthService) Login(ctx context.Context, initData string) (*LoginResult, error) {
	wu, err := s.verifier.Verify(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return s.LoginAs(ctx, *wu)
}

// LoginAs signs in a Telegram user that was already authenticated. First
// time players get the starter balance and a random starter chiblet.
func (s *AuthService) LoginAs(ctx context.Context, wu telegram.WebAppUser) (*LoginResult, error) {
	res := &LoginResult{}
	err := s.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		now := s.now()
		u, err := s.store.Users.GetByTgID(ctx, wu.ID)
		switch {
		case err == nil:
			u.Username = wu.Username
			u.FirstName = wu.FirstName
			// LastOnline is left alone so the offline window survives until
			// ClaimIdle or FightStage settles it.
			res.User = u
			return s.store.Users.Update(ctx, u)
		case !IsNotFound(err):
			return err
		}

		starter := s.calc.Tables().Starter
		u = &domain.User{
			TgID:         wu.ID,
			Username:     wu.Username,
			FirstName:    wu.FirstName,
			Wchibi:       starter.Wchibi,
			Gems:         starter.Gems,
			Level:        1,
			CurrentStage: 1,
			LastOnline:   now,
			CreatedAt:    now,
		}
		if err := s.store.Users.Create(ctx, u); err != nil {
			return err
		}

		sp, err := s.randomSpecies(ctx, starter.Rarity, s.newRand())
		if err != nil {
			return err
		}
		ch := s.calc.NewChiblet(u.ID, sp, now)
		ch.IsActive = true
		ch.CustomName = "My " + sp.Name
		if err := s.store.Chiblets.Create(ctx, &ch); err != nil {
			return err
		}
		res.User, res.Created, res.Starter = u, true, &ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Token, err = s.tokens.Issue(res.User.ID)
	if err != nil {
		return nil, err
	}

	kind := "returning"
	if res.Created {
		kind = "new"
		logger.Info("player registered", "user_id", res.User.ID, "tg_id", wu.ID, "starter", res.Starter.SpeciesName)
	}
	metrics.Logins.WithLabelValues(kind).Inc()
	return res, nil
}
