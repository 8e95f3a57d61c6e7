// compendium-lint is a custom static analyzer for compendium performance patterns.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/castletown/compendium/tools/compendium-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
