package config

import (
	"os"
	"strings"
	"text/template"
)

// ExpandEnv expands environment variables in YAML content using Go templates.
// Uses {{.VAR_NAME}} syntax so that the '$' anchors and '\d' escapes that
// field specification patterns are full of pass through untouched:
//
//	types:
//	  "bank.v1.Account": "iban::^[A-Z]{2}\\d{2}(\\d+)$"   # kept literally
//	  "bank.v1.Card":    "{{.CARD_FIELDS}}"              # taken from the environment
//
// Missing variables expand to empty string (unless template is malformed).
// On parse or execution errors the original data is returned unchanged so
// the YAML parser can report a clearer error.
func ExpandEnv(data []byte) []byte {
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(string(data))
	if err != nil {
		return data
	}

	envMap := make(map[string]string)
	for _, env := range os.Environ() {
		// Split only on first = to handle values with = in them
		if key, value, ok := strings.Cut(env, "="); ok && key != "" {
			envMap[key] = value
		}
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, envMap); err != nil {
		return data
	}

	return []byte(buf.String())
}
