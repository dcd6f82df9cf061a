package templates

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
)

type ViewField struct {
	Name string // exported Go name
	Key  string // key in the raw map
	Type string // Go type of the value
}

type ViewArgs struct {
	Package string
	Type    string
	Fields  []ViewField
}

// methods promoted from *reactive.Object that a field accessor must not shadow
var reservedNames = map[string]bool{
	"Get": true, "Set": true, "Has": true, "Delete": true, "Keys": true,
	"Len": true, "All": true, "Raw": true, "IsReadonly": true, "IsShallow": true,
	"Object": true,
}

// ParseFields reads "key:type,key:type". Keys become exported names:
// "due_at" becomes DueAt.
func ParseFields(list string) ([]ViewField, error) {
	var fields []ViewField
	seen := map[string]bool{}
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, typ, ok := strings.Cut(part, ":")
		key, typ = strings.TrimSpace(key), strings.TrimSpace(typ)
		if !ok || key == "" || typ == "" {
			return nil, fmt.Errorf("field %q: want key:type", part)
		}
		name := exportedName(key)
		if !token.IsIdentifier(name) {
			return nil, fmt.Errorf("field %q: %q is not a Go identifier", part, name)
		}
		if reservedNames[name] {
			return nil, fmt.Errorf("field %q: %s clashes with a reactive.Object method", part, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("field %q: duplicate name %s", part, name)
		}
		seen[name] = true
		fields = append(fields, ViewField{Name: name, Key: key, Type: typ})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields in %q", list)
	}

	// each field generates a getter, a setter and a ref accessor
	methods := map[string]string{}
	for _, f := range fields {
		for _, m := range f.methods() {
			if other, ok := methods[m]; ok {
				return nil, fmt.Errorf("fields %q and %q both generate method %s", other, f.Key, m)
			}
			if reservedNames[m] {
				return nil, fmt.Errorf("field %q: %s clashes with a reactive.Object method", f.Key, m)
			}
			methods[m] = f.Key
		}
	}
	return fields, nil
}

func (f ViewField) methods() []string {
	return []string{f.Name, "Set" + f.Name, f.Name + "Ref"}
}

func exportedName(key string) string {
	var sb strings.Builder
	upper := true
	for _, r := range key {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
