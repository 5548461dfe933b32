package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewToken: 32 baytlık rastgele opak API token üretir (hex, 64 karakter).
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token üretilemedi: %w", err)
	}
	return hex.EncodeToString(b), nil
}
