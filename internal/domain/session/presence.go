package session

import (
	"context"
	"slices"
)

// Presence answers who is online, derived from the reverse index. An account
// is online while it has a reverse entry; entries left behind by a crashed
// revoke linger until their TTL lapses.
type Presence struct {
	ledger *Ledger
}

func NewPresence(ledger *Ledger) *Presence {
	return &Presence{ledger: ledger}
}

// ActiveAccounts returns online accounts in ascending id order.
func (p *Presence) ActiveAccounts(ctx context.Context) ([]AccountID, error) {
	ids, err := p.ledger.ListActiveAccounts(ctx)
	if err != nil {
		return nil, err
	}
	// SCAN may return a key more than once.
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (p *Presence) Count(ctx context.Context) (int, error) {
	ids, err := p.ActiveAccounts(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (p *Presence) IsOnline(ctx context.Context, id AccountID) (bool, error) {
	return p.ledger.HasSession(ctx, id)
}
