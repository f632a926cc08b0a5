package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lrstanley/go-ytdlp"
	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/constant"
	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/key"
	"github.com/mashup-cli/mashup/style"
	"github.com/mashup-cli/mashup/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const installTimeout = 2 * time.Minute

// dependency is an external program the pipeline shells out to.
type dependency struct {
	name    string
	resolve func(ctx context.Context) (string, error)
	install map[string]string
}

var dependencies = []dependency{
	{
		name:    "yt-dlp",
		resolve: resolveYtdlp,
		install: map[string]string{
			constant.Darwin:  "brew install yt-dlp",
			constant.Linux:   "mashup check --install",
			constant.Windows: "scoop install yt-dlp",
		},
	},
	{
		name:    "ffmpeg",
		resolve: lookPath(key.FFmpegPath),
		install: map[string]string{
			constant.Darwin:  "brew install ffmpeg",
			constant.Linux:   "sudo apt install ffmpeg",
			constant.Windows: "scoop install ffmpeg",
		},
	},
	{
		name:    "ffprobe",
		resolve: lookPath(key.FFprobePath),
		install: map[string]string{
			constant.Darwin:  "brew install ffmpeg",
			constant.Linux:   "sudo apt install ffmpeg",
			constant.Windows: "scoop install ffmpeg",
		},
	},
}

func lookPath(k string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		return exec.LookPath(viper.GetString(k))
	}
}

// resolveYtdlp finds yt-dlp at the configured path, in PATH or in the managed install, without downloading it.
func resolveYtdlp(ctx context.Context) (string, error) {
	if configured := viper.GetString(key.YtdlpPath); configured != "" {
		return exec.LookPath(configured)
	}

	resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{DisableDownload: true})
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}

// CheckDependencies exits with an explanation when an external program is missing.
func CheckDependencies() {
	for _, dep := range dependencies {
		if _, err := dep.resolve(context.Background()); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep dependency) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep.name))

	suggestion := ""
	if installCmd, ok := dep.install[runtime.GOOS]; ok {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("install", false, "Download yt-dlp into the cache directory when it is missing")
}

// checkCmd reports the external programs the pipeline needs.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that yt-dlp, ffmpeg and ffprobe are available",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
		defer cancel()

		if lo.Must(cmd.Flags().GetBool("install")) {
			erase := util.PrintErasable(fmt.Sprintf("%s Installing yt-dlp...", icon.Get(icon.Download)))
			resolved, err := ytdlp.Install(ctx, nil)
			erase()
			handleErr(err)
			fmt.Printf("%s yt-dlp %s at %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), resolved.Version, resolved.Executable)
		}

		var missing int
		for _, dep := range dependencies {
			path, err := dep.resolve(ctx)
			if err != nil {
				missing++
				fmt.Printf("%s %s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), style.Bold(dep.name), style.Faint("not found"))
				continue
			}
			fmt.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(dep.name), style.Faint(path))
		}

		if missing > 0 {
			handleErr(fmt.Errorf("%s missing", util.Quantify(missing, "dependency", "dependencies")))
		}
	},
}
