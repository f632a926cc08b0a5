package cmd

import (
	"os"

	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/config"
	"github.com/mashup-cli/mashup/style"
	"github.com/mashup-cli/mashup/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envCmd displays the current process values for all supported environment variables.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display the collection of supported environment variables and their current process values.
Unprefixed legacy names are shown in parentheses and used when the prefixed one is unset.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		names := []string{where.EnvConfigPath}
		aliases := make(map[string]string)
		for _, k := range config.EnvExposed {
			field := config.Default[k]
			names = append(names, field.Env())
			if legacy, ok := config.LegacyEnv[k]; ok {
				aliases[field.Env()] = legacy
			}
		}
		slices.Sort(names)

		for _, env := range names {
			value := os.Getenv(env)
			present := value != ""

			legacy, hasLegacy := aliases[env]
			if !present && hasLegacy {
				value = os.Getenv(legacy)
				present = value != ""
			}

			if setOnly || unsetOnly {
				if !present && setOnly {
					continue
				}

				if present && unsetOnly {
					continue
				}
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			if hasLegacy {
				cmd.Print(style.Faint(" (" + legacy + ")"))
			}
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
