package health

import (
	"context"
	"errors"
)

// ErrNoRules is reported by RulesCheck when the active rule set is empty.
var ErrNoRules = errors.New("no rewrite rules loaded")

// Pinger is implemented by stores that can verify their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports the health of a store.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}

// RulesCheck fails while count reports no loaded rules.
func RulesCheck(count func() int) CheckFunc {
	return func(ctx context.Context) error {
		if count() == 0 {
			return ErrNoRules
		}
		return nil
	}
}
