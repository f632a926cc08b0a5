package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/config"
	"github.com/mashup-cli/mashup/delivery"
	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/mashup"
	"github.com/mashup-cli/mashup/style"
	"github.com/mashup-cli/mashup/web"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on, e.g. :8080")
	lo.Must0(viper.BindPFlag(key.WebAddr, serveCmd.Flags().Lookup("addr")))
}

// serveCmd runs the web form that emails mashups.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form that emails zipped mashups",
	Long: `Serve a web form asking for a singer, the number of videos, the clip duration and an email address.
The mashup is zipped and sent with the configured SMTP account.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		smtp := config.LoadSMTP()
		if !smtp.HasCredentials() {
			fmt.Fprintf(
				os.Stderr,
				"%s SMTP credentials are not set, emails will fail. Run %s or set %s\n",
				style.Fg(color.Yellow)(icon.Get(icon.Warn)),
				style.Bold("mashup smtp login"),
				style.Bold(config.LegacyEnv[key.SMTPPassword]),
			)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		server := web.New(
			mashup.NewBuilder(),
			delivery.NewMailer(smtp),
			smtp.Subject,
			viper.GetString(key.WebSecretKey),
		)

		addr := viper.GetString(key.WebAddr)
		fmt.Printf("%s Listening on %s\n", style.Fg(color.Green)(icon.Get(icon.Mail)), style.Fg(color.Yellow)(addr))
		handleErr(server.ListenAndServe(ctx, addr))
	},
}
