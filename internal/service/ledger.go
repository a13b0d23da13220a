package service

import (
	"context"
	"fmt"

	"chiblets_lite/internal/domain"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/metrics"
	"chiblets_lite/internal/repository"
)

// Ledger records every wCHIBI movement. It adjusts the balance on the
// user value it is given; the caller persists the user in the same
// transaction.
type Ledger struct {
	txs repository.TransactionStore
}

func NewLedger(txs repository.TransactionStore) *Ledger {
	return &Ledger{txs: txs}
}

// Credit adds amount to u. Non-positive amounts are ignored.
func (l *Ledger) Credit(ctx context.Context, u *domain.User, amount int64, txType string, meta map[string]interface{}) error {
	if amount <= 0 {
		return nil
	}
	u.Wchibi += amount
	return l.record(ctx, u.ID, amount, txType, meta)
}

// Debit removes amount from u, failing when the balance is short.
func (l *Ledger) Debit(ctx context.Context, u *domain.User, amount int64, txType string, meta map[string]interface{}) error {
	if amount <= 0 {
		return nil
	}
	if u.Wchibi < amount {
		return fmt.Errorf("%w: have %d, need %d", game.ErrInsufficientFunds, u.Wchibi, amount)
	}
	u.Wchibi -= amount
	return l.record(ctx, u.ID, -amount, txType, meta)
}

func (l *Ledger) record(ctx context.Context, userID, amount int64, txType string, meta map[string]interface{}) error {
	t := &domain.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Meta:   meta,
	}
	if err := l.txs.Create(ctx, t); err != nil {
		return err
	}
	metrics.Currency.WithLabelValues(txType).Add(float64(abs(amount)))
	return nil
}

// History returns the latest ledger entries of a user.
func (l *Ledger) History(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	return l.txs.ListByUser(ctx, userID, limit)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
