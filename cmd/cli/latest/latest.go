package latest

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cliconfig "github.com/itu-devops/minitwit/cmd/cli/config"
	"github.com/itu-devops/minitwit/cmd/cli/root"
	"github.com/itu-devops/minitwit/internal/repo"
)

func init() {
	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the latest simulator command id",
		RunE:  runLatest,
	}

	root.GetRoot().AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) error {
	database, err := cliconfig.OpenDB()
	if err != nil {
		return err
	}
	defer database.Close()

	value, err := repo.NewLatestRepo(database).Get(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}
