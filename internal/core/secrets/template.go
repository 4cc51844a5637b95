package secrets

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

type manifestMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

type manifest struct {
	APIVersion string            `yaml:"apiVersion"`
	Kind       string            `yaml:"kind"`
	Type       string            `yaml:"type"`
	Metadata   manifestMetadata  `yaml:"metadata"`
	StringData map[string]string `yaml:"stringData,omitempty"`
}

// HelmValueExpression turns a variable name into a Helm value reference.
// Dots and hyphens become underscores, camelCase humps are split with an
// underscore and the result is upper-cased:
// "adminTOken-Test.variable" -> "{{ .Values.<ADMIN_TOKEN_TEST_VARIABLE> }}".
func HelmValueExpression(key string) string {
	var b strings.Builder
	var prev rune
	for i, r := range key {
		switch {
		case r == '.' || r == '-':
			b.WriteRune('_')
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune('_')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return fmt.Sprintf("{{ .Values.<%s> }}", strings.ToUpper(b.String()))
}

// RenderTemplate renders a Secret manifest for the given keys.
func RenderTemplate(name string, labels map[string]string, keys []string) ([]byte, error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	m := manifest{
		APIVersion: "v1",
		Kind:       "Secret",
		Type:       "Opaque",
		Metadata: manifestMetadata{
			Name:   name,
			Labels: labels,
		},
	}
	if len(sorted) > 0 {
		m.StringData = make(map[string]string, len(sorted))
		for _, key := range sorted {
			m.StringData[key] = HelmValueExpression(key)
		}
	}

	out, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("failed to render secret template: %w", err)
	}
	return out, nil
}
