package prompt

import (
	"fmt"
	"regexp"
)

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

func (a *implAssembler) Build(name string, values Values) (string, []string, error) {
	tmpl, ok := a.templates[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	var missing []string
	seen := make(map[string]bool)
	text := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := values[key]; ok {
			return v
		}
		if !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
		return ""
	})
	return text, missing, nil
}

func (a *implAssembler) Instructions(kind string) string {
	if text, ok := a.instructions[kind]; ok {
		return text
	}
	return a.instructions[generalKind]
}

// placeholders lists the placeholder names in tmpl in order of first appearance.
func placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func references(tmpl, name string) bool {
	for _, n := range placeholders(tmpl) {
		if n == name {
			return true
		}
	}
	return false
}
