// Package analyzers provides all custom static analyzers for compendium.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/castletown/compendium/tools/compendium-lint/analyzers/loopcall"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		loopcall.Analyzer,
	}
}
