// Command daymacro-vet runs the day macro analyzer standalone or as a
// go vet tool: go vet -vettool=$(which daymacro-vet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"daymacro/internal/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
