package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/sortwise/sessiond/internal/domain/session"
)

// DefaultPrefix marks session tokens so they are recognisable in logs and
// secret scanners.
const DefaultPrefix = "st_"

const tokenRandomBytes = 32

// Generator issues opaque session tokens.
type Generator interface {
	// Generate returns a fresh token and its store digest.
	Generate() (plainToken string, digest string, err error)
	Digest(plainToken string) string
	Verify(plainToken, digest string) bool
}

type tokenGenerator struct {
	prefix string
}

func NewGenerator(prefix string) Generator {
	return &tokenGenerator{prefix: prefix}
}

func (g *tokenGenerator) Generate() (string, string, error) {
	randomBytes := make([]byte, tokenRandomBytes)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plainToken := g.prefix + base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainToken, g.Digest(plainToken), nil
}

func (g *tokenGenerator) Digest(plainToken string) string {
	return session.DigestToken(plainToken)
}

func (g *tokenGenerator) Verify(plainToken, digest string) bool {
	computed := g.Digest(plainToken)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
