package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/cmd/mimedit/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
