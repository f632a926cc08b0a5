package config

import (
	"github.com/mashup-cli/mashup/auth"
	"github.com/mashup-cli/mashup/key"
	"github.com/spf13/viper"
)

// FallbackFrom is the sender used when neither a from address nor a username is configured.
const FallbackFrom = "no-reply@example.com"

// SMTP holds the credentials and endpoint used to email mashups.
// It is resolved once and handed to the mailer explicitly.
type SMTP struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	Subject  string
}

// HasCredentials reports whether both username and password are set.
func (s SMTP) HasCredentials() bool {
	return s.Username != "" && s.Password != ""
}

// LoadSMTP resolves the SMTP configuration from viper, falling back to the keyring for the password.
func LoadSMTP() SMTP {
	s := SMTP{
		Server:   viper.GetString(key.SMTPServer),
		Port:     viper.GetInt(key.SMTPPort),
		Username: viper.GetString(key.SMTPUsername),
		Password: viper.GetString(key.SMTPPassword),
		From:     viper.GetString(key.SMTPFrom),
		Subject:  viper.GetString(key.SMTPSubject),
	}

	if s.Password == "" && s.Username != "" {
		if password, err := auth.GetSMTPPassword(s.Username); err == nil {
			s.Password = password
		}
	}

	if s.From == "" {
		s.From = s.Username
	}
	if s.From == "" {
		s.From = FallbackFrom
	}

	return s
}
