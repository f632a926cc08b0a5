// Package auth provides a high-level API for persisting and retrieving user credentials from the system keyring.
package auth

import (
	"github.com/zalando/go-keyring"
)

const service = "mashup-cli-smtp"

// SetSMTPPassword persists the SMTP password for the given username to the system keyring.
func SetSMTPPassword(username, password string) error {
	return keyring.Set(service, username, password)
}

// GetSMTPPassword retrieves the SMTP password for the given username from the system keyring.
func GetSMTPPassword(username string) (string, error) {
	return keyring.Get(service, username)
}

// DeleteSMTPPassword removes the SMTP password for the given username from the system keyring.
func DeleteSMTPPassword(username string) error {
	return keyring.Delete(service, username)
}
