package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/mashup-cli/mashup/color"
	"github.com/mashup-cli/mashup/history"
	"github.com/mashup-cli/mashup/icon"
	"github.com/mashup-cli/mashup/style"
	"github.com/mashup-cli/mashup/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	singerWidth      = 24
	destinationWidth = 48
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the history as JSON")
	historyCmd.Flags().IntP("limit", "n", 20, "Show at most this many records. 0 shows all")
	historyCmd.Flags().StringP("remove", "r", "", "Forget the record with this ID")
	historyCmd.Flags().Bool("clear", false, "Forget every record")
	historyCmd.MarkFlagsMutuallyExclusive("remove", "clear", "json")
}

// historyCmd lists the mashups produced on this machine.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously produced mashups",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		if id := lo.Must(cmd.Flags().GetString("remove")); id != "" {
			handleErr(history.Remove(id))
			fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(id))
			return
		}

		records, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(records) > limit {
			records = records[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No mashups yet"))
			return
		}

		var (
			singer      = style.Truncate(singerWidth)
			destination = style.Truncate(destinationWidth)
		)

		for _, r := range records {
			cmd.Printf(
				"%s %-*s %s %s %s\n",
				style.Fg(color.Purple)(icon.Get(icon.Music)),
				singerWidth,
				singer(r.Singer),
				style.Faint(r.CreatedAt.Format("2006-01-02 15:04")),
				style.Fg(color.Yellow)(util.Quantify(r.Clips, "clip", "clips")+" · "+r.Duration.String()),
				destination(r.Destination),
			)
		}
	},
}
