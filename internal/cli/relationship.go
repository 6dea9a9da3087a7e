package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-companion-core/internal/domain"
)

var showCmd = &cobra.Command{
	Use:   "show <platform> <user>",
	Short: "Print one relationship record as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rec, err := a.engine.Record(args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked relationships",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		for _, rec := range a.relationships.All() {
			fmt.Printf("%-30s %-14s interactions=%-5d +%d/-%d status=%q\n",
				rec.Key(), rec.Level, rec.InteractionCount,
				rec.PositiveCount, rec.NegativeCount, rec.RelationshipStatus)
		}
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <platform> <user> <message...>",
	Short: "Record one interaction and append it to the chat history",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		platform, user := args[0], args[1]
		message := strings.Join(args[2:], " ")

		rec := a.engine.RecordInteraction(platform, user, message)
		if rec == nil {
			fmt.Println("empty message, nothing recorded")
			return nil
		}
		a.history.Append(platform, user, domain.RoleUser, message, nil)
		return printJSON(rec)
	},
}

var setLevelCmd = &cobra.Command{
	Use:   "set-level <platform> <user> <level>",
	Short: "Override the relationship level directly",
	Long: "Writes the level without consulting the progression thresholds. " +
		"Valid levels: stranger, acquaintance, friend, close_friend, vip.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.engine.SetLevel(args[0], args[1], args[2])
	},
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status <platform> <user> <status>",
	Short: "Set the free-form relationship status label",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.engine.SetStatus(args[0], args[1], strings.Join(args[2:], " "))
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <platform> <user>",
	Short: "Raise the relationship one tier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		level := a.engine.Promote(args[0], args[1])
		fmt.Printf("level is now %s\n", level)
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <platform> <user> <text...>",
	Short: "Append a special note to the record",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.engine.AddNote(args[0], args[1], strings.Join(args[2:], " "))
		return nil
	},
}

var traitCmd = &cobra.Command{
	Use:   "trait <platform> <user> <text...>",
	Short: "Append a personality trait to the record",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.engine.AddTrait(args[0], args[1], strings.Join(args[2:], " "))
		return nil
	},
}

var cleanupMaxAge time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove relationships inactive past the age threshold",
	Long: "Removes relationship records (and their chat histories) whose last " +
		"interaction is older than --max-age. Defaults to INACTIVE_AFTER from " +
		"the environment.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		maxAge := cleanupMaxAge
		if maxAge <= 0 {
			maxAge = a.cfg.InactiveAfter
		}
		removed := a.engine.CleanupInactive(maxAge)
		fmt.Printf("removed %d inactive relationship(s)\n", removed)
		a.close()
		return nil
	},
}

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupMaxAge, "max-age", 0,
		"inactivity threshold (e.g. 2160h); 0 uses INACTIVE_AFTER")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
