package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mashup-cli/mashup/auth"
	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/request"
	"github.com/mashup-cli/mashup/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(smtpCmd)
	smtpCmd.AddCommand(smtpLoginCmd)
	smtpCmd.AddCommand(smtpLogoutCmd)
}

// smtpCmd groups the commands managing the account used to email mashups.
var smtpCmd = &cobra.Command{
	Use:   "smtp",
	Short: "Manage the SMTP account used by the web form",
}

var smtpLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save the SMTP username to the config and the password to the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		var username string
		handleErr(survey.AskOne(&survey.Input{
			Message: "SMTP username:",
			Default: viper.GetString(key.SMTPUsername),
		}, &username, survey.WithValidator(survey.Required)))

		var password string
		handleErr(survey.AskOne(&survey.Password{
			Message: "SMTP password:",
			Help:    "For Gmail use an app password",
		}, &password, survey.WithValidator(survey.Required)))

		handleErr(auth.SetSMTPPassword(username, password))

		viper.Set(key.SMTPUsername, username)
		if request.IsValidEmail(username) && viper.GetString(key.SMTPFrom) == "" {
			viper.Set(key.SMTPFrom, username)
		}
		persist()

		fmt.Printf(
			"%s saved credentials for %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(username),
		)
	},
}

var smtpLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored SMTP password from the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		username := viper.GetString(key.SMTPUsername)
		if username == "" {
			handleErr(errors.New("no SMTP username configured"))
		}

		handleErr(auth.DeleteSMTPPassword(username))
		fmt.Printf(
			"%s removed the password of %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(username),
		)
	},
}
