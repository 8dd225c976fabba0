package main

import (
	"fmt"
	"os"

	"github.com/itu-devops/minitwit/cmd/cli/root"

	_ "github.com/itu-devops/minitwit/cmd/cli/latest"
	_ "github.com/itu-devops/minitwit/cmd/cli/msgs"
	_ "github.com/itu-devops/minitwit/cmd/cli/users"
)

func main() {
	// Execute the root Cobra command
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
