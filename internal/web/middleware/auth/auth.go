package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"sync/atomic"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

const (
	// CookieName is the cookie carrying the token for browser access.
	CookieName = "systeminfo_token"

	bearerPrefix = "Bearer "
)

// New creates the token middleware for tokenHash.
func New(tokenHash string) fiber.Handler {
	if tokenHash == "" {
		log.Warn().Msg("no admin token hash configured: api and admin pages are unprotected")

		return func(c fiber.Ctx) error {
			return c.Next()
		}
	}

	v := &verifier{hash: tokenHash}

	return func(c fiber.Ctx) error {
		token := Token(c)
		if token == "" {
			return fiber.ErrUnauthorized
		}

		if !v.verify(token) {
			log.Warn().Str("IP", c.IP()).Str("path", c.Path()).Msg("invalid admin token")

			return fiber.ErrUnauthorized
		}

		return c.Next()
	}
}

// Token returns the token sent with the request, the Authorization header wins over the cookie.
func Token(c fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}

	return c.Cookies(CookieName)
}

// verifier remembers the digest of the last accepted token, argon2id is too
// expensive to run on every request.
type verifier struct {
	hash     string
	accepted atomic.Pointer[[sha256.Size]byte]
}

func (v *verifier) verify(token string) bool {
	sum := sha256.Sum256([]byte(token))

	if known := v.accepted.Load(); known != nil && subtle.ConstantTimeCompare(known[:], sum[:]) == 1 {
		return true
	}

	match, err := argon2id.ComparePasswordAndHash(token, v.hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify admin token")

		return false
	}

	if match {
		v.accepted.Store(&sum)
	}

	return match
}
