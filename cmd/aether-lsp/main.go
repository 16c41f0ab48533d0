// Command aether-lsp is the AetherraCode language server. Editors launch
// it and speak JSON-RPC over stdin and stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"aether/lsp"
)

func main() {
	if err := lsp.Serve(context.Background(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "aether-lsp: %v\n", err)
		os.Exit(1)
	}
}
