package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultKeyPrefix = "sessiond:"

	forwardSegment = "token:"
	reverseSegment = "account:"

	forwardRecordVersion = "v1"
	digestLen            = sha256.Size * 2
	fingerprintLen       = 12
)

// DigestToken is the store-side identity of a token.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Fingerprint shortens a digest for logs.
func Fingerprint(digest string) string {
	if len(digest) <= fingerprintLen {
		return digest
	}
	return digest[:fingerprintLen]
}

// ForwardRecord is the value of a forward index entry.
type ForwardRecord struct {
	AccountID AccountID
	IssuedAt  time.Time
}

// Codec lays out session keys under a namespace prefix and encodes the values
// stored under them.
type Codec struct {
	prefix string
}

func NewCodec(prefix string) Codec {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Codec{prefix: prefix}
}

func (c Codec) Prefix() string {
	return c.prefix
}

// ForwardKey is the key of the token -> account entry for a token digest.
func (c Codec) ForwardKey(digest string) string {
	return c.prefix + forwardSegment + digest
}

// ReverseKey is the key of the account -> token entry.
func (c Codec) ReverseKey(id AccountID) string {
	return c.prefix + reverseSegment + id.String()
}

// ReversePrefix is the prefix shared by every reverse key.
func (c Codec) ReversePrefix() string {
	return c.prefix + reverseSegment
}

// ParseReverseKey recovers the account id from a reverse key.
func (c Codec) ParseReverseKey(key string) (AccountID, bool) {
	rest, ok := strings.CutPrefix(key, c.ReversePrefix())
	if !ok {
		return 0, false
	}
	id, err := ParseAccountID(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// EncodeForward renders a forward record as v1:<account>:<issued unix ms>.
func EncodeForward(rec ForwardRecord) string {
	return forwardRecordVersion + ":" + rec.AccountID.String() + ":" +
		strconv.FormatInt(rec.IssuedAt.UnixMilli(), 10)
}

// DecodeForward accepts the v1 format and the bare decimal account id written
// by earlier deployments, which carries no issue time.
func DecodeForward(v string) (ForwardRecord, error) {
	parts := strings.Split(v, ":")
	switch {
	case len(parts) == 1:
		id, err := ParseAccountID(parts[0])
		if err != nil {
			return ForwardRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		return ForwardRecord{AccountID: id}, nil
	case len(parts) == 3 && parts[0] == forwardRecordVersion:
		id, err := ParseAccountID(parts[1])
		if err != nil {
			return ForwardRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		ms, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return ForwardRecord{}, fmt.Errorf("%w: issued at %q", ErrMalformedRecord, parts[2])
		}
		return ForwardRecord{AccountID: id, IssuedAt: time.UnixMilli(ms).UTC()}, nil
	default:
		return ForwardRecord{}, fmt.Errorf("%w: forward value %q", ErrMalformedRecord, v)
	}
}

// EncodeReverse renders the value of a reverse entry.
func EncodeReverse(digest string) string {
	return digest
}

// DecodeReverse validates a reverse value as a token digest.
func DecodeReverse(v string) (string, error) {
	if len(v) != digestLen {
		return "", fmt.Errorf("%w: reverse value has length %d", ErrMalformedRecord, len(v))
	}
	if _, err := hex.DecodeString(v); err != nil {
		return "", fmt.Errorf("%w: reverse value is not hex", ErrMalformedRecord)
	}
	return v, nil
}
