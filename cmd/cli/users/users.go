package users

import (
	"context"

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
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect registered users",
	}

	usersCmd.AddCommand(listUsersCmd())
	root.GetRoot().AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE:  runList,
	}
	cmd.Flags().Int("limit", 50, "Maximum number of users to show")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	database, err := cliconfig.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()

	users := repo.NewUserRepo(database)
	list, err := users.List(context.Background(), limit)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(list))
	for _, u := range list {
		rows = append(rows, []interface{}{u.ID, u.Username, u.Email})
	}

	output.RenderTable([]string{"ID", "Username", "Email"}, rows)
	return nil
}
