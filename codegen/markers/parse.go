package markers

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Parse decodes marker text ("+name" or "+name=key=value,...") into a value of the
// definition's output type.
func (d *Definition) Parse(markerText string) (any, error) {
	markerText = strings.TrimPrefix(strings.TrimSpace(markerText), "+")

	name, args, _ := strings.Cut(markerText, "=")
	if name = strings.TrimSpace(name); name != d.Name {
		return nil, fmt.Errorf("marker name mismatch: expected %s, got %s", d.Name, name)
	}

	out := reflect.New(d.OutputType).Elem()
	if args = strings.TrimSpace(args); args != "" {
		if err := d.parseArguments(args, out); err != nil {
			return nil, fmt.Errorf("+%s: %w", d.Name, err)
		}
	}
	return out.Interface(), nil
}

func (d *Definition) parseArguments(args string, out reflect.Value) error {
	pairs, err := splitPairs(args)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		arg, exists := d.Args[p.key]
		if !exists {
			return fmt.Errorf("unknown argument %q", p.key)
		}
		if seen[p.key] {
			return fmt.Errorf("duplicate argument %q", p.key)
		}
		seen[p.key] = true

		if err := parseValue(p.value, arg, out.FieldByName(arg.Field)); err != nil {
			return fmt.Errorf("argument %s: %w", p.key, err)
		}
	}
	return nil
}

type pair struct {
	key, value string
}

// splitPairs splits "k1=v1,k2={a,b},k3=\"x,y\"" at the commas outside quotes and braces.
func splitPairs(args string) ([]pair, error) {
	var pairs []pair
	i := 0
	for i < len(args) {
		for i < len(args) && args[i] == ' ' {
			i++
		}
		if i >= len(args) {
			break
		}

		keyStart := i
		for i < len(args) && args[i] != '=' && args[i] != ',' {
			i++
		}
		if i >= len(args) || args[i] != '=' {
			return nil, fmt.Errorf("missing '=' after %q", strings.TrimSpace(args[keyStart:i]))
		}
		key := strings.TrimSpace(args[keyStart:i])
		if key == "" {
			return nil, fmt.Errorf("missing argument name at offset %d", keyStart)
		}
		i++

		valueStart := i
		depth := 0
		inQuotes := false
		for ; i < len(args); i++ {
			c := args[i]
			if inQuotes {
				switch c {
				case '\\':
					i++
				case '"':
					inQuotes = false
				}
				continue
			}
			switch c {
			case '"':
				inQuotes = true
			case '{':
				depth++
			case '}':
				depth--
			}
			if c == ',' && depth == 0 {
				break
			}
		}
		if inQuotes {
			return nil, fmt.Errorf("argument %s: unterminated string", key)
		}
		if depth != 0 {
			return nil, fmt.Errorf("argument %s: unbalanced braces", key)
		}

		pairs = append(pairs, pair{key: key, value: strings.TrimSpace(args[valueStart:i])})
		if i < len(args) {
			i++
		}
	}
	return pairs, nil
}

func parseValue(value string, arg Argument, out reflect.Value) error {
	if arg.Type != SliceType && strings.HasPrefix(value, `"`) {
		s, err := strconv.Unquote(value)
		if err != nil {
			return fmt.Errorf("invalid quoted string %s", value)
		}
		value = s
	}

	switch arg.Type {
	case StringType:
		out.SetString(value)
	case IntType:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		out.SetInt(n)
	case BoolType:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		out.SetBool(b)
	case SliceType:
		return parseSlice(value, arg, out)
	default:
		return fmt.Errorf("unsupported argument type %v", arg.Type)
	}
	return nil
}

// parseSlice parses "{a,b,c}" or "a;b;c".
func parseSlice(value string, arg Argument, out reflect.Value) error {
	var items []string
	if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
		items = strings.Split(value[1:len(value)-1], ",")
	} else {
		items = strings.Split(value, ";")
	}

	slice := reflect.MakeSlice(out.Type(), 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		elem := reflect.New(out.Type().Elem()).Elem()
		if err := parseValue(item, *arg.ItemType, elem); err != nil {
			return fmt.Errorf("slice item: %w", err)
		}
		slice = reflect.Append(slice, elem)
	}
	out.Set(slice)
	return nil
}

// isMarkerComment reports whether a "//" comment is a marker ("// +name...").
func isMarkerComment(comment string) bool {
	text, ok := strings.CutPrefix(comment, "//")
	if !ok {
		return false
	}
	text = strings.TrimSpace(text)
	return len(text) > 1 && text[0] == '+'
}

// extractMarkerText strips the comment prefix: "// +name=x" -> "+name=x".
func extractMarkerText(comment string) string {
	text, _ := strings.CutPrefix(comment, "//")
	return strings.TrimSpace(text)
}
