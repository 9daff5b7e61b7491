// Command vire-suggest runs the suggestion pipeline once from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/bobmcallan/vire-options/internal/config"
)

func main() {
	config.LoadVersionFromFile()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
