package main

import (
	"os"

	"github.com/nftsweep/sdk-go/cmd/batchbuy/cmd"
)

// Batch purchase CLI
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
