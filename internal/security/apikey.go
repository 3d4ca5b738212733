package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"rentvault-backend/internal/config"
)

var ErrUnknownAPIKey = errors.New("unknown api key")

// APIKeyVerifier authenticates machine callers (the relayer sweep, the
// insurer service) against bcrypt hashes from config. Keys never appear
// in clear text on disk.
type APIKeyVerifier struct {
	keys []config.APIKeyConfig
}

func NewAPIKeyVerifier(keys []config.APIKeyConfig) *APIKeyVerifier {
	return &APIKeyVerifier{keys: keys}
}

// Verify compares the presented key against every configured hash and
// returns the matching account and its roles.
func (v *APIKeyVerifier) Verify(presented string) (*AccountClaims, error) {
	for _, k := range v.keys {
		if bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(presented)) == nil {
			return &AccountClaims{Account: k.Account, Roles: k.Roles}, nil
		}
	}
	return nil, ErrUnknownAPIKey
}
