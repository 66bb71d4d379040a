// Command authctl is the operator tool of auth-service: schema migrations,
// local identities and session inspection.
package main

import (
	"fmt"
	"os"

	"github.com/piercey/auth-service/internal/cli/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
