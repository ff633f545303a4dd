// Command campusai is the entry point for the CampusConnect AI university
// assistant. It provides a CLI interface (via Cobra) and an HTTP server
// exposing the chat and knowledge base admin APIs.
package main

import (
	"fmt"
	"os"

	"github.com/campusconnect/campusai-go/cmd/campusai/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
