package session

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/sortwise/sessiond/internal/shared/errors"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// Ledger owns the forward and reverse session indices. Every read or write of
// session keys goes through it. A Ledger holds no session state of its own and
// is safe for concurrent use; the store is the only synchronisation point.
type Ledger struct {
	store  Store
	codec  Codec
	logger logger.Interface
	now    func() time.Time
}

type LedgerOption func(*Ledger)

// WithClock overrides the clock used for issue timestamps and expiry math.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(store Store, codec Codec, log logger.Interface, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		store:  store,
		codec:  codec,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Codec exposes the key layout, for tooling that inspects the store.
func (l *Ledger) Codec() Codec {
	return l.codec
}

// Put records token as the current session of accountID. See Issue.
func (l *Ledger) Put(ctx context.Context, token string, accountID AccountID, ttl time.Duration) error {
	_, err := l.Issue(ctx, token, accountID, ttl)
	return err
}

// Issue records token as the current session of accountID and returns the
// session as stored, so its IssuedAt matches what Inspect later reports. The
// forward entry is written before the reverse entry is overwritten, so a
// reader that observes the new reverse entry always finds its forward half.
// Any previous session of the account is demoted by the overwrite.
func (l *Ledger) Issue(ctx context.Context, token string, accountID AccountID, ttl time.Duration) (*Session, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	if err := validateAccount(accountID); err != nil {
		return nil, err
	}
	if err := validateTTL(ttl); err != nil {
		return nil, err
	}

	// Forward records keep millisecond precision.
	issuedAt := l.now().UTC().Truncate(time.Millisecond)
	digest := DigestToken(token)
	forwardKey := l.codec.ForwardKey(digest)
	record := EncodeForward(ForwardRecord{AccountID: accountID, IssuedAt: issuedAt})

	if err := l.store.SetWithTTL(ctx, forwardKey, record, ttl); err != nil {
		return nil, unavailable("put forward", forwardKey, err)
	}

	reverseKey := l.codec.ReverseKey(accountID)
	if err := l.store.SetWithTTL(ctx, reverseKey, EncodeReverse(digest), ttl); err != nil {
		// The forward entry is orphaned and fails the reverse cross-check
		// until its TTL lapses.
		return nil, unavailable("put reverse", reverseKey, err)
	}

	l.logger.Debugw("session recorded",
		"account_id", accountID,
		"token_fp", Fingerprint(digest),
		"ttl", ttl,
	)
	return NewSession(token, accountID, issuedAt, ttl), nil
}

// LookupAccount reads the forward index only. It does not establish that the
// session is current; use Authenticate for that.
func (l *Ledger) LookupAccount(ctx context.Context, token string) (AccountID, bool, error) {
	if token == "" {
		return 0, false, nil
	}
	rec, ok, err := l.forward(ctx, DigestToken(token))
	if err != nil || !ok {
		return 0, false, err
	}
	return rec.AccountID, true, nil
}

// Authenticate resolves token to its account only when the forward entry
// exists and the account's reverse entry still names this token.
func (l *Ledger) Authenticate(ctx context.Context, token string) (AccountID, error) {
	_, rec, err := l.verify(ctx, token)
	if err != nil {
		return 0, err
	}
	return rec.AccountID, nil
}

// Extend resets both entries of a current session to ttl, forward first. A
// superseded or half-gone session is not refreshed at all, so activity on an
// old token cannot keep it alive. The reverse entry is refreshed only while it
// still names token; a login that wins the race leaves Extend with
// ErrSessionSuperseded and the newer session's TTL untouched. A store fault
// after the forward refresh is still reported as ErrStoreUnavailable.
func (l *Ledger) Extend(ctx context.Context, token string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}

	digest, rec, err := l.verify(ctx, token)
	if err != nil {
		return err
	}

	forwardKey := l.codec.ForwardKey(digest)
	ok, err := l.store.RefreshTTL(ctx, forwardKey, ttl)
	if err != nil {
		return unavailable("extend forward", forwardKey, err)
	}
	if !ok {
		return ErrUnauthenticated
	}

	ok, err = l.refreshReverse(ctx, rec.AccountID, digest, ttl)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	_, present, err := l.reverse(ctx, rec.AccountID)
	if err != nil {
		return err
	}
	if present {
		return ErrSessionSuperseded
	}
	return ErrUnauthenticated
}

// refreshReverse resets the reverse entry's TTL only while it names digest.
func (l *Ledger) refreshReverse(ctx context.Context, accountID AccountID, digest string, ttl time.Duration) (bool, error) {
	reverseKey := l.codec.ReverseKey(accountID)
	if cr, ok := l.store.(ConditionalRefresher); ok {
		refreshed, err := cr.RefreshTTLIfValue(ctx, reverseKey, EncodeReverse(digest), ttl)
		if err != nil {
			return false, unavailable("extend reverse", reverseKey, err)
		}
		return refreshed, nil
	}

	current, ok, err := l.reverse(ctx, accountID)
	if err != nil {
		return false, err
	}
	if !ok || current != digest {
		return false, nil
	}
	refreshed, err := l.store.RefreshTTL(ctx, reverseKey, ttl)
	if err != nil {
		return false, unavailable("extend reverse", reverseKey, err)
	}
	return refreshed, nil
}

// Revoke deletes the forward entry of token unconditionally and the reverse
// entry of accountID only while it still names token, so a newer session of
// the same account survives.
func (l *Ledger) Revoke(ctx context.Context, token string, accountID AccountID) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if err := validateAccount(accountID); err != nil {
		return err
	}
	return l.revokeDigest(ctx, DigestToken(token), accountID)
}

// Kick revokes whatever session accountID currently has. It reports whether
// there was one.
func (l *Ledger) Kick(ctx context.Context, accountID AccountID) (bool, error) {
	if err := validateAccount(accountID); err != nil {
		return false, err
	}

	digest, ok, err := l.reverse(ctx, accountID)
	if err != nil || !ok {
		return false, err
	}
	if err := l.revokeDigest(ctx, digest, accountID); err != nil {
		return false, err
	}
	return true, nil
}

// ListActiveAccounts enumerates the reverse index. The result is a snapshot:
// entries may expire or appear while it is being read.
func (l *Ledger) ListActiveAccounts(ctx context.Context) ([]AccountID, error) {
	prefix := l.codec.ReversePrefix()
	keys, err := l.store.ListKeysByPrefix(ctx, prefix)
	if err != nil {
		return nil, unavailable("list", prefix+"*", err)
	}

	ids := make([]AccountID, 0, len(keys))
	for _, key := range keys {
		id, ok := l.codec.ParseReverseKey(key)
		if !ok {
			l.logger.Debugw("skipping foreign key in reverse keyspace", "key", key)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HasSession reports whether accountID has a reverse entry.
func (l *Ledger) HasSession(ctx context.Context, accountID AccountID) (bool, error) {
	if !accountID.Valid() {
		return false, nil
	}
	_, ok, err := l.reverse(ctx, accountID)
	return ok, err
}

// Inspect returns the full record of a current session. ExpiresAt is filled
// in when the store can report TTLs.
func (l *Ledger) Inspect(ctx context.Context, token string) (*Session, error) {
	digest, rec, err := l.verify(ctx, token)
	if err != nil {
		return nil, err
	}

	s := &Session{Token: token, AccountID: rec.AccountID, IssuedAt: rec.IssuedAt}

	reader, ok := l.store.(TTLReader)
	if !ok {
		return s, nil
	}
	forwardKey := l.codec.ForwardKey(digest)
	ttl, err := reader.TTL(ctx, forwardKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, unavailable("ttl", forwardKey, err)
	}
	if ttl > 0 {
		s.ExpiresAt = l.now().Add(ttl)
	}
	return s, nil
}

// verify is the cross-check behind Authenticate, Extend and Inspect.
func (l *Ledger) verify(ctx context.Context, token string) (string, ForwardRecord, error) {
	if token == "" {
		return "", ForwardRecord{}, ErrUnauthenticated
	}

	digest := DigestToken(token)
	rec, ok, err := l.forward(ctx, digest)
	if err != nil {
		return "", ForwardRecord{}, err
	}
	if !ok {
		return "", ForwardRecord{}, ErrUnauthenticated
	}

	current, ok, err := l.reverse(ctx, rec.AccountID)
	if err != nil {
		return "", ForwardRecord{}, err
	}
	if !ok {
		return "", ForwardRecord{}, ErrUnauthenticated
	}
	if current != digest {
		return "", ForwardRecord{}, ErrSessionSuperseded
	}

	return digest, rec, nil
}

func (l *Ledger) revokeDigest(ctx context.Context, digest string, accountID AccountID) error {
	forwardKey := l.codec.ForwardKey(digest)
	if err := l.store.Delete(ctx, forwardKey); err != nil {
		return unavailable("revoke forward", forwardKey, err)
	}

	reverseKey := l.codec.ReverseKey(accountID)
	if cd, ok := l.store.(ConditionalDeleter); ok {
		if _, err := cd.DeleteIfValue(ctx, reverseKey, EncodeReverse(digest)); err != nil {
			return unavailable("revoke reverse", reverseKey, err)
		}
	} else {
		current, ok, err := l.reverse(ctx, accountID)
		if err != nil {
			return err
		}
		if ok && current == digest {
			if err := l.store.Delete(ctx, reverseKey); err != nil {
				return unavailable("revoke reverse", reverseKey, err)
			}
		}
	}

	l.logger.Debugw("session revoked",
		"account_id", accountID,
		"token_fp", Fingerprint(digest),
	)
	return nil
}

func (l *Ledger) forward(ctx context.Context, digest string) (ForwardRecord, bool, error) {
	key := l.codec.ForwardKey(digest)
	v, err := l.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return ForwardRecord{}, false, nil
	}
	if err != nil {
		return ForwardRecord{}, false, unavailable("get forward", key, err)
	}

	rec, err := DecodeForward(v)
	if err != nil {
		l.logger.Warnw("treating malformed forward entry as absent",
			"token_fp", Fingerprint(digest),
			"error", err,
		)
		return ForwardRecord{}, false, nil
	}
	return rec, true, nil
}

func (l *Ledger) reverse(ctx context.Context, accountID AccountID) (string, bool, error) {
	key := l.codec.ReverseKey(accountID)
	v, err := l.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get reverse", key, err)
	}

	digest, err := DecodeReverse(v)
	if err != nil {
		l.logger.Warnw("treating malformed reverse entry as absent",
			"account_id", accountID,
			"error", err,
		)
		return "", false, nil
	}
	return digest, true, nil
}

func validateToken(token string) error {
	if token == "" {
		return apperrors.NewValidationError("token is required")
	}
	return nil
}

func validateAccount(id AccountID) error {
	if !id.Valid() {
		return apperrors.NewValidationError("account id must be positive", id.String())
	}
	return nil
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return apperrors.NewValidationError("session lifetime must be positive", ttl.String())
	}
	return nil
}
