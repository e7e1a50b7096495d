package msg

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenCache memoizes the channel's bearer token together with its expiry
// so that the reuse-or-refresh decision is a pure function of the clock.
type tokenCache struct {
	value  string
	expiry time.Time
}

// set caches a token and records its exp claim. A token without a readable
// expiry gets a zero expiry and will never validate, forcing a fresh
// handshake on the next call.
func (c *tokenCache) set(token string) {
	c.value = token
	c.expiry = time.Time{}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.expiry = exp.Time
	}
}

func (c *tokenCache) isValid(now time.Time) bool {
	return c.value != "" && now.Before(c.expiry)
}
