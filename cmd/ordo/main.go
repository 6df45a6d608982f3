package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/ordo"
)

func main() {
	if err := ordo.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
