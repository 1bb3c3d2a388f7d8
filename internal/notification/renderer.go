// Package notification renders notification templates.  Templates carry
// {{placeholder}} markers in their title and message, and a loosely typed
// `variables` column that has accumulated several formats over time; the
// loader here normalizes all of them so nothing past this package ever sees
// the raw form.
package notification

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/prestaci/prestaci-backend/internal/model"
)

// placeholderRe matches {{key}} markers.  Only word characters are accepted
// inside the braces; anything else is not a placeholder and stays literal.
var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes every {{key}} occurrence in s with the string form of
// vars[key].  A key missing from vars renders as the empty string rather
// than failing; text that merely looks like a placeholder is left alone.
func Render(s string, vars map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		key := m[2 : len(m)-2]
		v, ok := vars[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	})
}

// RenderTemplate renders both the title and the message of a template with
// the same variable set.
func RenderTemplate(tpl *model.NotificationTemplate, vars map[string]any) (titre, message string) {
	return Render(tpl.Titre, vars), Render(tpl.Message, vars)
}

// ParseVariables turns the raw variables column of a template into a clean
// ordered list of variable names.  The column has been written by several
// generations of admin tooling and may contain:
//
//	a JSON array:              ["nom","date"]
//	single-quoted pseudo-JSON: ['nom','date']
//	a bare comma list:         nom, date
//
// Single quotes are normalized to double quotes and bare lists are wrapped
// in brackets before the JSON parse; if the parse still fails the value is
// split on commas by hand.  Parsing never returns an error: a malformed
// value degrades to the best-effort split.
func ParseVariables(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	candidate := strings.ReplaceAll(raw, "'", `"`)
	if !strings.HasPrefix(candidate, "[") {
		parts := strings.Split(candidate, ",")
		for i, p := range parts {
			parts[i] = `"` + strings.Trim(strings.TrimSpace(p), `"`) + `"`
		}
		candidate = "[" + strings.Join(parts, ",") + "]"
	}

	var names []string
	if err := json.Unmarshal([]byte(candidate), &names); err == nil {
		return cleanNames(names)
	}

	// Manual fallback: strip brackets and split on commas.
	stripped := strings.Trim(raw, "[] ")
	return cleanNames(strings.Split(stripped, ","))
}

// cleanNames trims whitespace and stray quotes and drops empty entries.
func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.Trim(strings.TrimSpace(n), `"'`)
		if n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
