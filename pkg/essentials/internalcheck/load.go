package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// Pattern matches the library packages the policies apply to.
const Pattern = "github.com/proof-essentials/proof-essentials-go/pkg/essentials/..."

// Load parses and type-checks the packages matching patterns.
func Load(patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("load packages: %d errors", n)
	}
	return pkgs, nil
}

// Inspect calls fn for every node of every file in pkgs and collects the
// findings it reports.
func Inspect(pkgs []*packages.Package, fn func(pkg *packages.Package, n ast.Node) (token.Pos, string, bool)) []string {
	var findings []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				if pos, msg, ok := fn(pkg, n); ok {
					findings = append(findings, fmt.Sprintf("%s: %s", pkg.Fset.Position(pos), msg))
				}
				return true
			})
		}
	}
	return findings
}
