package ingest

import (
	"fmt"
	"strings"

	"javabrowser/internal/source"
)

const localPrefix = "local "

type suffix byte

const (
	suffixNamespace suffix = '/'
	suffixType      suffix = '#'
	suffixTerm      suffix = '.'
	suffixMethod    suffix = 'm'
	suffixTypeParam suffix = '['
	suffixParameter suffix = '('
	suffixMeta      suffix = ':'
	suffixMacro     suffix = '!'
)

type descriptor struct {
	name          string
	disambiguator string
	suffix        suffix
}

// symbol is a parsed global SCIP symbol.
// Format: <scheme> ' ' <manager> ' ' <package> ' ' <version> ' ' <descriptors>
type symbol struct {
	scheme      string
	manager     string
	pkg         string
	version     string
	descriptors []descriptor
}

func isLocalSymbol(s string) bool {
	return strings.HasPrefix(s, localPrefix)
}

// parseSymbol parses a global symbol. Within the header fields a literal
// space is written as two spaces.
func parseSymbol(s string) (*symbol, error) {
	var fields []string
	i := 0
	for len(fields) < 4 {
		field, next, ok := readField(s, i)
		if !ok {
			return nil, fmt.Errorf("invalid SCIP symbol %q", s)
		}
		fields = append(fields, field)
		i = next
	}

	ds, err := parseDescriptors(s[i:])
	if err != nil {
		return nil, fmt.Errorf("invalid SCIP symbol %q: %w", s, err)
	}
	return &symbol{
		scheme:      fields[0],
		manager:     fields[1],
		pkg:         fields[2],
		version:     fields[3],
		descriptors: ds,
	}, nil
}

func readField(s string, i int) (string, int, bool) {
	var b strings.Builder
	for i < len(s) {
		if s[i] == ' ' {
			if i+1 < len(s) && s[i+1] == ' ' {
				b.WriteByte(' ')
				i += 2
				continue
			}
			return b.String(), i + 1, true
		}
		b.WriteByte(s[i])
		i++
	}
	return "", i, false
}

func parseDescriptors(s string) ([]descriptor, error) {
	var out []descriptor
	i := 0
	for i < len(s) {
		switch s[i] {
		case '[', '(':
			closing, sfx := byte(']'), suffixTypeParam
			if s[i] == '(' {
				closing, sfx = ')', suffixParameter
			}
			name, j, err := readName(s, i+1)
			if err != nil {
				return nil, err
			}
			if j >= len(s) || s[j] != closing {
				return nil, fmt.Errorf("expected %q at %d", closing, j)
			}
			out = append(out, descriptor{name: name, suffix: sfx})
			i = j + 1
		default:
			name, j, err := readName(s, i)
			if err != nil {
				return nil, err
			}
			if j >= len(s) {
				return nil, fmt.Errorf("descriptor %q has no suffix", name)
			}
			switch c := s[j]; c {
			case '/', '#', '.', ':', '!':
				out = append(out, descriptor{name: name, suffix: suffix(c)})
				i = j + 1
			case '(':
				end := strings.IndexByte(s[j+1:], ')')
				if end < 0 || j+1+end+1 >= len(s) || s[j+1+end+1] != '.' {
					return nil, fmt.Errorf("malformed method descriptor %q", name)
				}
				out = append(out, descriptor{name: name, disambiguator: s[j+1 : j+1+end], suffix: suffixMethod})
				i = j + 1 + end + 2
			default:
				return nil, fmt.Errorf("unexpected %q after %q", c, name)
			}
		}
	}
	return out, nil
}

// readName reads a simple or backtick-escaped identifier starting at i.
func readName(s string, i int) (string, int, error) {
	if i < len(s) && s[i] == '`' {
		var b strings.Builder
		j := i + 1
		for j < len(s) {
			if s[j] == '`' {
				if j+1 < len(s) && s[j+1] == '`' {
					b.WriteByte('`')
					j += 2
					continue
				}
				return b.String(), j + 1, nil
			}
			b.WriteByte(s[j])
			j++
		}
		return "", j, fmt.Errorf("unterminated escaped name at %d", i)
	}

	j := i
	for j < len(s) && isIdentChar(s[j]) {
		j++
	}
	if j == i {
		return "", j, fmt.Errorf("empty name at %d", i)
	}
	return s[i:j], j, nil
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '+' || c == '-' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// bindingFor maps a descriptor path to a binding id: packages joined by '.',
// nested types by '$', members after '#', constructors as "Type(…)".
// Paths that name no linkable Java declaration yield false.
func bindingFor(ds []descriptor) (source.BindingID, bool) {
	var pkg []string
	typ, member := "", ""
	for _, d := range ds {
		if member != "" {
			return "", false
		}
		switch d.suffix {
		case suffixNamespace:
			if typ != "" {
				return "", false
			}
			pkg = append(pkg, d.name)
		case suffixType:
			if typ == "" {
				typ = strings.Join(append(pkg, d.name), ".")
			} else {
				typ += "$" + d.name
			}
		case suffixTerm:
			if typ == "" {
				return "", false
			}
			member = "#" + d.name
		case suffixMethod:
			if typ == "" {
				return "", false
			}
			if d.name == "<init>" {
				member = "(" + d.disambiguator + ")"
			} else {
				member = "#" + d.name + "(" + d.disambiguator + ")"
			}
		default:
			return "", false
		}
	}
	if typ == "" {
		return "", false
	}
	return source.BindingID(typ + member), true
}

// enclosingBindings lists the bindings enclosing ds, innermost first.
func enclosingBindings(ds []descriptor) []source.BindingID {
	var out []source.BindingID
	for n := len(ds) - 1; n > 0; n-- {
		if id, ok := bindingFor(ds[:n]); ok {
			out = append(out, id)
		}
	}
	return out
}

func isInitializer(ds []descriptor) bool {
	if len(ds) == 0 {
		return false
	}
	last := ds[len(ds)-1]
	return last.suffix == suffixMethod && last.name == "<clinit>"
}

func displayName(ds []descriptor) string {
	if len(ds) == 0 {
		return ""
	}
	return ds[len(ds)-1].name
}
