package markerparser

import (
	"go/ast"
	"go/types"
	"strconv"

	"github.com/vast-data/markergen/codegen/model"
)

// typeDecl is a package-level type declaration available for resolving named field types.
type typeDecl struct {
	expr ast.Expr
	file *ast.File
}

// resolver maps field type expressions to model value types.
type resolver struct {
	decls map[string]typeDecl
}

func newResolver() *resolver {
	return &resolver{decls: make(map[string]typeDecl)}
}

func (r *resolver) addFile(file *ast.File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range genDecl.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.TypeParams != nil {
				continue
			}
			r.decls[ts.Name.Name] = typeDecl{expr: ts.Type, file: file}
		}
	}
}

// resolve returns the value type of expr as written in file.
func (r *resolver) resolve(expr ast.Expr, file *ast.File) model.ValueType {
	return r.resolveSeen(expr, file, map[string]bool{})
}

func (r *resolver) resolveSeen(expr ast.Expr, file *ast.File, seen map[string]bool) model.ValueType {
	written := types.ExprString(expr)

	switch e := expr.(type) {
	case *ast.ParenExpr:
		return r.resolveSeen(e.X, file, seen)
	case *ast.Ident:
		if decl, ok := r.decls[e.Name]; ok {
			if seen[e.Name] {
				return model.Other(written)
			}
			seen[e.Name] = true
			return r.resolveSeen(decl.expr, decl.file, seen).AsNamed(e.Name)
		}
		return model.Builtin(e.Name)
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if ok && e.Sel.Name == "Duration" && importPath(file, pkg.Name) == "time" {
			vt := model.Builtin("time.Duration")
			vt.Expr = written
			return vt
		}
	case *ast.ArrayType:
		if e.Len == nil {
			if elt, ok := e.Elt.(*ast.Ident); ok && (elt.Name == "byte" || elt.Name == "uint8") {
				if _, shadowed := r.decls[elt.Name]; !shadowed {
					vt := model.Builtin("[]byte")
					vt.Expr = written
					return vt
				}
			}
		}
	}
	return model.Other(written)
}

// importPath returns the path a file imports under the given package name.
func importPath(file *ast.File, name string) string {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		local := path
		if imp.Name != nil {
			local = imp.Name.Name
		}
		if local == name {
			return path
		}
	}
	return ""
}
