package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/clubar/cmd/clubar"
	"github.com/arthur-debert/clubar/pkg/ui/output/styles"
)

func main() {
	rootCmd := clubar.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.GetStyle("Error").Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
