// Package secrets stores credentials in the OS keychain with an environment
// variable fallback for headless hosts.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "jobscout"

const (
	accountTelegram  = "jobscout:telegram-bot-token"
	accountInference = "jobscout:inference-api-token"
)

// GetIMAPPassword resolves the mailbox password, preferring the keychain and
// falling back to JOBSCOUT_IMAP_PASSWORD.
func GetIMAPPassword(username, host string) (string, error) {
	account := IMAPKeyringAccount(username, host)
	if pw, err := keyring.Get(KeyringService, account); err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if pw := strings.TrimSpace(os.Getenv("JOBSCOUT_IMAP_PASSWORD")); pw != "" {
		return pw, nil
	}
	return "", errors.New("imap password not found (set it in keychain or JOBSCOUT_IMAP_PASSWORD)")
}

func SetIMAPPassword(username, host, password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, IMAPKeyringAccount(username, host), password)
}

func DeleteIMAPPassword(username, host string) error {
	return keyring.Delete(KeyringService, IMAPKeyringAccount(username, host))
}

func IMAPKeyringAccount(username, host string) string {
	return fmt.Sprintf("jobscout:imap:%s@%s", username, host)
}

// GetTelegramToken prefers the keychain over the TELEGRAM_BOT_TOKEN env var.
func GetTelegramToken() (string, error) {
	return getWithEnvFallback(accountTelegram, "TELEGRAM_BOT_TOKEN")
}

func SetTelegramToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, accountTelegram, token)
}

// GetInferenceToken prefers the keychain over the INFERENCE_API_TOKEN env var.
func GetInferenceToken() (string, error) {
	return getWithEnvFallback(accountInference, "INFERENCE_API_TOKEN")
}

func SetInferenceToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, accountInference, token)
}

func getWithEnvFallback(account, envVar string) (string, error) {
	if v, err := keyring.Get(KeyringService, account); err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret %s not found (set it in keychain or %s)", account, envVar)
}
