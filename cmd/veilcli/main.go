package main

import (
	"os"

	svrcmd "github.com/cosmos/cosmos-sdk/server/cmd"

	"github.com/veil-protocol/veil/app"
	"github.com/veil-protocol/veil/cmd/veild/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd(true)

	if err := svrcmd.Execute(rootCmd, "", app.DefaultNodeHome); err != nil {
		os.Exit(1)
	}
}
