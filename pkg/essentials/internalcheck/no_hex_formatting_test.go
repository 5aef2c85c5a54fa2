package internalcheck

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoHexFormatting(t *testing.T) {
	pkgs, err := Load(Pattern)
	if err != nil {
		t.Fatal(err)
	}

	findings := Inspect(pkgs, func(pkg *packages.Package, n ast.Node) (token.Pos, string, bool) {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return token.NoPos, "", false
		}
		selector, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return token.NoPos, "", false
		}
		obj := pkg.TypesInfo.Uses[selector.Sel]
		if obj == nil || obj.Pkg() == nil {
			return token.NoPos, "", false
		}

		formatIdx, ok := formatIndex(obj.Pkg().Path(), obj.Name())
		if !ok || len(call.Args) <= formatIdx {
			return token.NoPos, "", false
		}
		lit, ok := call.Args[formatIdx].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return token.NoPos, "", false
		}
		value, err := strconv.Unquote(lit.Value)
		if err != nil || !containsHexVerb(value) {
			return token.NoPos, "", false
		}
		return lit.Pos(), "avoid %x formatting of secrets", true
	})

	if len(findings) > 0 {
		t.Fatalf("secret logging policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func TestNoMathRand(t *testing.T) {
	pkgs, err := Load(Pattern)
	if err != nil {
		t.Fatal(err)
	}

	var findings []string
	for _, pkg := range pkgs {
		for path := range pkg.Imports {
			if path == "math/rand" || path == "math/rand/v2" {
				findings = append(findings, pkg.PkgPath+" imports "+path)
			}
		}
	}
	if len(findings) > 0 {
		t.Fatalf("randomness policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func formatIndex(pkgPath, name string) (int, bool) {
	switch pkgPath {
	case "fmt":
		switch name {
		case "Errorf", "Printf", "Sprintf":
			return 0, true
		case "Fprintf":
			return 1, true
		}
	case "log":
		switch name {
		case "Printf", "Fatalf", "Panicf":
			return 0, true
		}
	}
	return 0, false
}

func containsHexVerb(s string) bool {
	return strings.Contains(s, "%x") || strings.Contains(s, "%X")
}
