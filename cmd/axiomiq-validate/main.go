// Command axiomiq-validate checks a JSON report against the bundled
// report schema (strict structural checks plus JSON Schema v1).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("axiomiq-validate", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "Optional schema path override (default: bundled v1)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: axiomiq-validate [--schema schema.json] report.json")
		return 2
	}

	path := fs.Arg(0)
	if err := report.ValidateJSONFile(path, *schemaPath); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		return 1
	}

	fmt.Printf("STRICT JSON OK: %s\n", path)
	return 0
}
