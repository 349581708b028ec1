package redis

import "fmt"

// Key formats
const (
	keySession        = "session:%s"
	keySuggestedStash = "session:%s:suggested"
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySession returns the key for a server session record
func (kb *KeyBuilder) KeySession(sessionID string) string {
	return kb.BuildKey(fmt.Sprintf(keySession, sessionID))
}

// KeySuggestedStash returns the key for a session's last suggested batch
func (kb *KeyBuilder) KeySuggestedStash(sessionID string) string {
	return kb.BuildKey(fmt.Sprintf(keySuggestedStash, sessionID))
}
