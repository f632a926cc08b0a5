package config

import (
	"testing"

	"github.com/mashup-cli/mashup/auth"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func init() {
	filesystem.SetMemMapFs()
	keyring.MockInit()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.IsSet(name) || viper.Get(name) != nil, ShouldBeTrue)
			}
			So(viper.GetString(key.SMTPServer), ShouldEqual, "smtp.gmail.com")
			So(viper.GetInt(key.SMTPPort), ShouldEqual, 587)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("smtp.server")
			So(result, ShouldEqual, "smtp_server")
		})

		Convey("Legacy environment names are honoured", func() {
			t.Setenv("SMTP_SERVER", "mail.example.org")
			So(Setup(), ShouldBeNil)
			So(viper.GetString(key.SMTPServer), ShouldEqual, "mail.example.org")
		})

		Convey("Prefixed environment names win over legacy ones", func() {
			t.Setenv("SMTP_PORT", "2525")
			t.Setenv("MASHUP_SMTP_PORT", "465")
			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.SMTPPort), ShouldEqual, 465)
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.SMTPPort]

		Convey("Env is prefixed and upper-cased", func() {
			So(field.Env(), ShouldEqual, "MASHUP_SMTP_PORT")
		})

		Convey("Type name follows the default value", func() {
			So(field.typeName(), ShouldEqual, "int")
		})
	})
}

func TestLoadSMTP(t *testing.T) {
	Convey("Given SMTP settings", t, func() {
		_ = Setup()
		viper.Set(key.SMTPUsername, "")
		viper.Set(key.SMTPPassword, "")
		viper.Set(key.SMTPFrom, "")

		Convey("From falls back to a placeholder without a username", func() {
			s := LoadSMTP()
			So(s.From, ShouldEqual, FallbackFrom)
			So(s.HasCredentials(), ShouldBeFalse)
		})

		Convey("From falls back to the username", func() {
			viper.Set(key.SMTPUsername, "me@example.com")
			s := LoadSMTP()
			So(s.From, ShouldEqual, "me@example.com")
		})

		Convey("The password is read from the keyring when unset", func() {
			viper.Set(key.SMTPUsername, "me@example.com")
			So(auth.SetSMTPPassword("me@example.com", "hunter2"), ShouldBeNil)

			s := LoadSMTP()
			So(s.Password, ShouldEqual, "hunter2")
			So(s.HasCredentials(), ShouldBeTrue)
		})
	})
}
