package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "jobradar"

// GetSourceToken returns the API token stored for a source, or "" when
// none is set — most public boards need no token at all.
func GetSourceToken(sourceName string) string {
	account := sourceAccount(sourceName)
	if account == "" {
		return ""
	}
	tok, err := keyring.Get(KeyringService, account)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(tok)
}

func SetSourceToken(sourceName, token string) error {
	account := sourceAccount(sourceName)
	if account == "" {
		return errors.New("source name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, token)
}

func DeleteSourceToken(sourceName string) error {
	account := sourceAccount(sourceName)
	if account == "" {
		return errors.New("source name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

func sourceAccount(sourceName string) string {
	name := strings.TrimSpace(strings.ToLower(sourceName))
	if name == "" {
		return ""
	}
	return "jobradar:source:" + name
}
