package markers

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"
)

// Registry holds all registered marker definitions.
type Registry struct {
	definitions map[string]*Definition
}

// NewRegistry creates a new marker registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
	}
}

// Register adds a marker definition to the registry. output is a zero value of the struct
// the marker arguments decode into; its exported fields become arguments named in
// camelCase unless a `marker:"name"` tag says otherwise.
func (r *Registry) Register(name string, output any, description string) error {
	if _, exists := r.definitions[name]; exists {
		return fmt.Errorf("marker %s is already registered", name)
	}
	def := &Definition{
		Name:        name,
		OutputType:  reflect.TypeOf(output),
		Args:        make(map[string]Argument),
		Description: description,
	}
	if err := analyzeOutputType(def); err != nil {
		return fmt.Errorf("failed to analyze output type for marker %s: %w", name, err)
	}

	r.definitions[name] = def
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, output any, description string) {
	if err := r.Register(name, output, description); err != nil {
		panic(err)
	}
}

// Lookup finds the definition of a marker comment text ("+name=args").
func (r *Registry) Lookup(markerText string) *Definition {
	return r.definitions[markerName(markerText)]
}

// Definitions returns the registered definitions sorted by name.
func (r *Registry) Definitions() []*Definition {
	defs := make([]*Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b *Definition) int { return strings.Compare(a.Name, b.Name) })
	return defs
}

// ArgNames returns the argument names of d sorted.
func (d *Definition) ArgNames() []string {
	names := make([]string, 0, len(d.Args))
	for name := range d.Args {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// markerName extracts the marker name from marker text: "+profiler:marker=name=X" -> "profiler:marker".
func markerName(markerText string) string {
	markerText = strings.TrimPrefix(markerText, "+")
	name, _, _ := strings.Cut(markerText, "=")
	return strings.TrimSpace(name)
}

func analyzeOutputType(def *Definition) error {
	if def.OutputType == nil || def.OutputType.Kind() != reflect.Struct {
		return fmt.Errorf("output type must be a struct, got %v", def.OutputType)
	}

	for i := 0; i < def.OutputType.NumField(); i++ {
		field := def.OutputType.Field(i)
		if !field.IsExported() {
			continue
		}

		argName := fieldToArgName(field.Name)
		if tag, ok := field.Tag.Lookup("marker"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				argName = tag
			}
		}

		arg, err := argumentFromType(field.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		arg.Field = field.Name
		def.Args[argName] = arg
	}
	return nil
}

func argumentFromType(typ reflect.Type) (Argument, error) {
	switch typ.Kind() {
	case reflect.String:
		return Argument{Type: StringType}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Argument{Type: IntType}, nil
	case reflect.Bool:
		return Argument{Type: BoolType}, nil
	case reflect.Slice:
		item, err := argumentFromType(typ.Elem())
		if err != nil {
			return Argument{}, fmt.Errorf("slice element type: %w", err)
		}
		if item.Type == SliceType {
			return Argument{}, fmt.Errorf("nested slices are not supported")
		}
		return Argument{Type: SliceType, ItemType: &item}, nil
	default:
		return Argument{}, fmt.Errorf("unsupported type: %s", typ.Kind())
	}
}

// fieldToArgName converts PascalCase to camelCase ("ChartLabel" -> "chartLabel").
func fieldToArgName(fieldName string) string {
	if fieldName == "" {
		return ""
	}
	runes := []rune(fieldName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
