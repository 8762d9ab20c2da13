// Command modelform derives forms from model definitions. It renders them to
// HTML, collects values in the terminal, or serves CRUD pages backed by DuckDB.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
