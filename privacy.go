package lodge

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const saltSetting = "ip_hash_salt"

// loadSalt returns the installation's IP hashing salt, creating and storing
// one on first start.
func loadSalt(ctx context.Context, s *Store) (string, error) {
	salt, err := s.GetSetting(ctx, saltSetting)
	if err != nil {
		return "", fmt.Errorf("read ip salt: %w", err)
	}
	if salt != "" {
		return salt, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate ip salt: %w", err)
	}
	salt = hex.EncodeToString(b)
	if err := s.SetSetting(ctx, saltSetting, salt); err != nil {
		return "", fmt.Errorf("store ip salt: %w", err)
	}
	return salt, nil
}

// hashIP returns a salted, truncated SHA-256 of a client address so stored
// messages can be grouped by sender without keeping the address itself.
func (a *App) hashIP(ip string) string {
	h := sha256.Sum256([]byte(a.ipSalt + ip))
	return hex.EncodeToString(h[:])[:16]
}
