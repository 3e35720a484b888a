package markers

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

// ParseError is a marker comment that names a registered marker but whose arguments do
// not parse.
type ParseError struct {
	Pos    token.Position
	Marker string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Collector collects and parses marker comments from Go source code.
type Collector struct {
	Registry *Registry
}

// NewCollector creates a new marker collector with the given registry.
func NewCollector(registry *Registry) *Collector {
	return &Collector{Registry: registry}
}

// EachType calls the callback for each top-level type declared in file. Unknown markers
// are ignored; malformed known markers are recorded on the TypeInfo they belong to.
func (c *Collector) EachType(fset *token.FileSet, file *ast.File, callback TypeCallback) error {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if err := callback(c.buildTypeInfo(fset, file, genDecl, typeSpec)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Collector) buildTypeInfo(fset *token.FileSet, file *ast.File, genDecl *ast.GenDecl, typeSpec *ast.TypeSpec) *TypeInfo {
	info := &TypeInfo{
		Name:    typeSpec.Name.Name,
		Pos:     fset.Position(typeSpec.Name.Pos()),
		Markers: make(MarkerValues),
		Doc:     extractDoc(typeSpec.Doc),
		RawSpec: typeSpec,
		RawFile: file,
	}

	c.collect(fset, typeSpec.Doc, info)
	// A lone "type X struct" keeps its doc comment on the GenDecl.
	if len(genDecl.Specs) == 1 {
		c.collect(fset, genDecl.Doc, info)
		if info.Doc == "" {
			info.Doc = extractDoc(genDecl.Doc)
		}
	}

	structType, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		return info
	}
	info.Fields = []FieldInfo{}
	for _, field := range structType.Fields.List {
		base := FieldInfo{
			Tag:      structTag(field.Tag),
			RawField: field,
		}
		if len(field.Names) == 0 {
			base.Pos = fset.Position(field.Type.Pos())
			info.Fields = append(info.Fields, base)
			continue
		}
		for _, name := range field.Names {
			fi := base
			fi.Name = name.Name
			fi.Pos = fset.Position(name.Pos())
			info.Fields = append(info.Fields, fi)
		}
	}
	return info
}

func (c *Collector) collect(fset *token.FileSet, doc *ast.CommentGroup, info *TypeInfo) {
	if doc == nil {
		return
	}
	for _, comment := range doc.List {
		if !isMarkerComment(comment.Text) {
			continue
		}
		markerText := extractMarkerText(comment.Text)
		def := c.Registry.Lookup(markerText)
		if def == nil {
			continue
		}
		value, err := def.Parse(markerText)
		if err != nil {
			info.Errors = append(info.Errors, &ParseError{Pos: fset.Position(comment.Pos()), Marker: def.Name, Err: err})
			continue
		}
		info.Markers[def.Name] = append(info.Markers[def.Name], value)
	}
}

// structTag returns the unquoted struct tag of a field.
func structTag(tag *ast.BasicLit) reflect.StructTag {
	if tag == nil {
		return ""
	}
	s, err := strconv.Unquote(tag.Value)
	if err != nil {
		return reflect.StructTag(strings.Trim(tag.Value, "`"))
	}
	return reflect.StructTag(s)
}

// extractDoc extracts documentation text from a comment group, without marker lines.
func extractDoc(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}

	var lines []string
	for _, comment := range doc.List {
		if isMarkerComment(comment.Text) {
			continue
		}
		line := comment.Text
		if strings.HasPrefix(line, "//") {
			line = strings.TrimSpace(line[2:])
		} else if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
			line = strings.TrimSpace(line[2 : len(line)-2])
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
