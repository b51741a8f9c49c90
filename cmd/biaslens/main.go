// cmd/biaslens/main.go
package main

import (
	cmd "github.com/mwiater/biaslens/internal/cli"
)

// main starts the biaslens CLI by delegating to the cobra root command
// defined in the biaslens package.
func main() {
	cmd.Execute()
}
