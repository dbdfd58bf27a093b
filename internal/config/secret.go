package config

import (
	"crypto/rand"
	"encoding/hex"
)

// playback links signed with a generated secret stop working after restart
func generateLinkSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
