package msgs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cliconfig "github.com/itu-devops/minitwit/cmd/cli/config"
	"github.com/itu-devops/minitwit/cmd/cli/output"
	"github.com/itu-devops/minitwit/cmd/cli/root"
	"github.com/itu-devops/minitwit/internal/repo"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	msgsCmd := &cobra.Command{
		Use:   "msgs",
		Short: "Inspect and moderate messages",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent messages",
		Long:  "List the most recent messages, including flagged ones.",
		RunE:  runList,
	}
	listCmd.Flags().Int("limit", 30, "Maximum number of messages to show")

	flagCmd := &cobra.Command{
		Use:   "flag <message_id>",
		Short: "Flag a message",
		Long:  "Flag a message so it no longer appears on any timeline.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFlag,
	}

	unflagCmd := &cobra.Command{
		Use:   "unflag <message_id>",
		Short: "Unflag a message",
		Long:  "Clear a message's flag so it appears on timelines again.",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnflag,
	}

	msgsCmd.AddCommand(listCmd, flagCmd, unflagCmd)
	root.GetRoot().AddCommand(msgsCmd)
}

// ==========================
// List Messages
// ==========================
func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	database, err := cliconfig.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()

	messages := repo.NewMessageRepo(database)
	entries, err := messages.ListRecent(context.Background(), limit)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		flagged := ""
		if e.Message.Flagged != 0 {
			flagged = "FLAGGED"
		}
		rows = append(rows, []interface{}{
			e.Message.ID,
			e.Author.Username,
			e.Message.PubDate.Format("2006-01-02 15:04"),
			flagged,
			e.Message.Text,
		})
	}

	output.RenderTable([]string{"ID", "Author", "Published", "Flag", "Text"}, rows)
	return nil
}

// ==========================
// Flag / Unflag
// ==========================
func runFlag(cmd *cobra.Command, args []string) error {
	return setFlag(args[0], 1)
}

func runUnflag(cmd *cobra.Command, args []string) error {
	return setFlag(args[0], 0)
}

func setFlag(arg string, flagged int) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid message id %q", arg)
	}

	database, err := cliconfig.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()

	messages := repo.NewMessageRepo(database)
	if err := messages.SetFlagged(context.Background(), id, flagged); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("no message with id %d", id)
		}
		return err
	}

	if flagged != 0 {
		fmt.Printf("Flagged message %d\n", id)
	} else {
		fmt.Printf("Unflagged message %d\n", id)
	}
	return nil
}
