// Command kbsearch opens an interactive search overlay over a
// directory of knowledge base articles.
package main

import (
	"fmt"
	"os"

	"github.com/orbistack/kbsearch/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
