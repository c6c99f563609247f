package main

import (
	"fmt"
	"os"

	"github.com/roomchat/roomchat-server/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "roomchat: %v\n", err)
		os.Exit(1)
	}
}
