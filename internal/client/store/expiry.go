package store

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryThreshold is how close to expiry a credential counts as
// "expiring soon" when callers have no preference.
const DefaultExpiryThreshold = 5 * time.Minute

// ExpiresAt decodes the expiry embedded in the credential. The signature is
// not checked: the client never holds the signing key and only needs the
// timestamp. It reports false for an absent or undecodable credential, or
// one without an exp claim.
func (s *Store) ExpiresAt() (time.Time, bool) {
	cred, ok := s.Credential()
	if !ok {
		return time.Time{}, false
	}
	return CredentialExpiry(cred)
}

// CredentialExpiry extracts the exp claim of a JWT-shaped credential.
func CredentialExpiry(credential string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpiringSoon reports whether the credential expires within threshold.
// An absent or undecodable credential counts as expiring, which pushes
// callers toward re-authentication.
func (s *Store) IsExpiringSoon(threshold time.Duration) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return true
	}
	return exp.Sub(s.now()) < threshold
}

// IsExpired reports whether the credential carries an exp claim that has
// already passed. Opaque credentials without a decodable expiry are not
// considered expired here; the server decides for those.
func (s *Store) IsExpired() bool {
	exp, ok := s.ExpiresAt()
	return ok && !exp.After(s.now())
}
