// Package cmd implements the command-line interface for mashup.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/constant"
	"github.com/mashup-cli/mashup/delivery"
	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/log"
	"github.com/mashup-cli/mashup/mashup"
	"github.com/mashup-cli/mashup/open"
	"github.com/mashup-cli/mashup/query"
	"github.com/mashup-cli/mashup/request"
	"github.com/mashup-cli/mashup/style"
	"github.com/mashup-cli/mashup/tui"
	"github.com/mashup-cli/mashup/util"
	"github.com/mashup-cli/mashup/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errParameterCount is returned when the positional arguments do not match the usage line.
var errParameterCount = errors.New("incorrect number of parameters")

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().BoolP("json", "j", false, "Print the run report as JSON")
	rootCmd.Flags().BoolP("open", "o", false, "Open the mashup with the default player when done")

	rootCmd.Flags().Int("min-clips", 0, "Fewest clips accepted before the run aborts. 0 requires every video")
	lo.Must0(viper.BindPFlag(key.FetchMinClips, rootCmd.Flags().Lookup("min-clips")))

	rootCmd.Flags().Int("offset", 0, "Seconds skipped at the start of every clip")
	lo.Must0(viper.BindPFlag(key.MashupIntroOffset, rootCmd.Flags().Lookup("offset")))

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember produced mashups and searched singers")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd builds a mashup from positional arguments.
var rootCmd = &cobra.Command{
	Use:   constant.Mashup + ` "<SingerName>" <NumberOfVideos> <AudioDurationSeconds> <OutputFileName>`,
	Short: "Create an audio mashup from a singer's videos",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Create an audio mashup from a singer's videos"),
	Example: `  mashup "Sharry Maan" 20 30 sharry.mp3
  mashup "Arijit Singh" 12 25 out/arijit.mp3 --json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && (util.IsTerminal() || cmd.Flags().Changed("version")) {
			return nil
		}
		if len(args) != 4 {
			return fmt.Errorf("%w\n\nUsage:\n  %s", errParameterCount, cmd.UseLine())
		}
		return nil
	},
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		var raw request.Raw
		if len(args) == 0 {
			prompted, err := promptRaw()
			handleErr(err)
			raw = prompted
		} else {
			raw = request.Raw{Singer: args[0], Videos: args[1], Seconds: args[2], Output: args[3]}
		}

		req, err := request.Validate(raw, request.WithOutput())
		handleErr(err)

		CheckDependencies()

		var (
			asJson   = lo.Must(cmd.Flags().GetBool("json"))
			openWhen = lo.Must(cmd.Flags().GetBool("open"))
		)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		builder := mashup.NewBuilder()
		saver := &delivery.Saver{Path: req.Output}

		var report *mashup.Report
		job := func(notify func(mashup.Stage, string)) (err error) {
			builder.Progress = notify
			report, err = builder.Run(ctx, req, saver)
			return err
		}

		if util.IsTerminal() && !asJson {
			err = tui.Run(fmt.Sprintf("Mashup of %s", req.Singer), cancel, job)
		} else {
			err = job(tui.Plain(os.Stderr))
		}
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(report))
		} else {
			fmt.Println(summary(report))
		}

		if openWhen {
			handleErr(open.Start(report.Destination))
		}
	},
}

// promptRaw asks for the four positional values interactively.
func promptRaw() (request.Raw, error) {
	var raw request.Raw

	questions := []*survey.Question{
		{
			Name: "singer",
			Prompt: &survey.Input{
				Message: "Singer name",
				Default: query.Suggest("").OrEmpty(),
				Suggest: query.SuggestMany,
			},
			Validate: survey.Required,
		},
		{
			Name:   "videos",
			Prompt: &survey.Input{Message: "Number of videos", Default: fmt.Sprint(request.MinVideos + 1)},
		},
		{
			Name:   "seconds",
			Prompt: &survey.Input{Message: "Duration of each clip in seconds", Default: fmt.Sprint(request.MinSeconds + 1)},
		},
		{
			Name:   "output",
			Prompt: &survey.Input{Message: "Output file name", Default: "output.mp3"},
		},
	}

	err := survey.Ask(questions, &raw)
	return raw, err
}

func summary(report *mashup.Report) string {
	lines := []string{
		fmt.Sprintf("%s %s", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold("Mashup ready")),
		"",
		fmt.Sprintf("%s %s", style.Faint("Singer  "), report.Singer),
		fmt.Sprintf("%s %s of %d", style.Faint("Clips   "), util.Quantify(report.Used, "clip", "clips"), report.Requested),
		fmt.Sprintf("%s %s", style.Faint("Length  "), report.Duration),
		fmt.Sprintf("%s %s", style.Faint("Saved to"), style.Fg(color.Yellow)(report.Destination)),
	}
	return style.Box(strings.Join(lines, "\n"))
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	handleErr(rootCmd.Execute())
}

func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)

	var invalid request.ValidationErrors
	if errors.As(err, &invalid) {
		for _, message := range invalid.Messages() {
			_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), message)
		}
		os.Exit(1)
	}

	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
