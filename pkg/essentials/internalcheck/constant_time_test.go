package internalcheck

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoDirectByteComparison(t *testing.T) {
	pkgs, err := Load(Pattern)
	if err != nil {
		t.Fatal(err)
	}

	findings := Inspect(pkgs, func(pkg *packages.Package, n ast.Node) (token.Pos, string, bool) {
		be, ok := n.(*ast.BinaryExpr)
		if !ok || (be.Op != token.EQL && be.Op != token.NEQ) {
			return token.NoPos, "", false
		}
		if isByteSlice(pkg.TypesInfo.TypeOf(be.X)) && isByteSlice(pkg.TypesInfo.TypeOf(be.Y)) {
			return be.Pos(), "avoid == on byte slices; use crypto/subtle", true
		}
		return token.NoPos, "", false
	})

	if len(findings) > 0 {
		t.Fatalf("constant-time policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func TestIsByteSlice(t *testing.T) {
	byteSlice := types.NewSlice(types.Typ[types.Byte])
	cases := []struct {
		typ  types.Type
		want bool
	}{
		{byteSlice, true},
		{types.NewArray(types.Typ[types.Byte], 32), true},
		{types.NewPointer(byteSlice), true},
		{types.NewSlice(types.Typ[types.Int]), false},
		{types.Typ[types.String], false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := isByteSlice(tc.typ); got != tc.want {
			t.Errorf("isByteSlice(%v) = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func isByteSlice(typ types.Type) bool {
	if typ == nil {
		return false
	}

	switch tt := typ.(type) {
	case *types.Slice:
		return isByte(tt.Elem())
	case *types.Pointer:
		return isByteSlice(tt.Elem())
	case *types.Named:
		return isByteSlice(tt.Underlying())
	case *types.Array:
		return isByte(tt.Elem())
	default:
		return false
	}
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Byte
}
