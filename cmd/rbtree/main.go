// Package main provides the rbtree CLI, which builds red-black trees from
// arguments and prints their serialized shape, validation report or
// order statistics.
package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
