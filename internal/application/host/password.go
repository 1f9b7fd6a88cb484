package host

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GeneratePassword returns a one-time password of 16 hex characters
// (8 random bytes), disclosed to the operator exactly once.
func GeneratePassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratePassword, err)
	}
	return hex.EncodeToString(buf), nil
}
