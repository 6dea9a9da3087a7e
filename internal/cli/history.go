package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-companion-core/internal/utils"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <platform> <user>",
	Short: "Print a user's retained chat log",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		for _, m := range a.history.Get(args[0], args[1], historyLimit) {
			fmt.Printf("%s  %-9s  %s\n",
				m.Timestamp.Format("2006-01-02 15:04:05"),
				m.Role,
				utils.TruncateRunes(m.Content, 120))
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <platform> <user>",
	Short: "Print the conversation summary for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return printJSON(a.history.Summarize(args[0], args[1]))
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt <platform> <user> <message...>",
	Short: "Render the contextual prompt that would wrap a message",
	Long: "Builds the relationship-aware preamble for a message without " +
		"recording anything, useful for inspecting what the backend would see.",
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rec, err := a.engine.Record(args[0], args[1])
		if err != nil {
			return err
		}
		history := a.history.Get(args[0], args[1], 0)
		fmt.Println(a.context.BuildPrompt(rec, history, strings.Join(args[2:], " ")))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0,
		"only show the most recent N messages (0 = all retained)")
}
