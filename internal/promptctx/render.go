// Package promptctx assembles the text sent to the planner backend from
// a readiness.PromptContext. It supersedes the teacher's Mustache-style
// templater with the $var / ${var} syntax this system actually ships,
// substituted unescaped — see the package doc on RenderPrompt for why.
package promptctx

import "regexp"

// variablePattern matches $name or ${name} placeholders.
var variablePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// RenderPrompt substitutes $variable and ${variable} placeholders with
// values from the given map. Unknown variables are left as-is.
//
// Substitution is intentionally unescaped: a value itself containing
// "$name" text is not re-escaped before insertion, so a malicious or
// merely unlucky answer to a clarification question can inject a
// further placeholder into the rendered prompt. This mirrors the
// original implementation's behavior rather than hardening it — see
// the design notes on prompt template substitution.
func RenderPrompt(tmpl string, variables map[string]string) string {
	if len(variables) == 0 {
		return tmpl
	}
	return variablePattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		sub := variablePattern.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if value, ok := variables[name]; ok {
			return value
		}
		return match
	})
}

// MergeVariables merges built-in variables with caller-supplied ones;
// the caller's values win on name collision.
func MergeVariables(builtins, overrides map[string]string) map[string]string {
	if len(builtins) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(builtins)+len(overrides))
	for k, v := range builtins {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
