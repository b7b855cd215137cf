package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DialGRPC).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
