package promptctx

import "testing"

func TestRenderPrompt(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		variables map[string]string
		want      string
	}{
		{
			name:      "empty prompt",
			prompt:    "",
			variables: map[string]string{"foo": "bar"},
			want:      "",
		},
		{
			name:      "no variables",
			prompt:    "Hello world",
			variables: nil,
			want:      "Hello world",
		},
		{
			name:      "empty variables map",
			prompt:    "Hello $name",
			variables: map[string]string{},
			want:      "Hello $name",
		},
		{
			name:      "bare substitution",
			prompt:    "Hello $name!",
			variables: map[string]string{"name": "Alice"},
			want:      "Hello Alice!",
		},
		{
			name:      "braced substitution",
			prompt:    "Hello ${name}!",
			variables: map[string]string{"name": "Alice"},
			want:      "Hello Alice!",
		},
		{
			name:      "multiple substitutions",
			prompt:    "$greeting, $name! Welcome to ${place}.",
			variables: map[string]string{"greeting": "Hello", "name": "Bob", "place": "orcaspine"},
			want:      "Hello, Bob! Welcome to orcaspine.",
		},
		{
			name:      "unknown variable preserved",
			prompt:    "Hello $name, your id is $unknown",
			variables: map[string]string{"name": "Charlie"},
			want:      "Hello Charlie, your id is $unknown",
		},
		{
			name:      "same variable multiple times",
			prompt:    "$topic is great. I love $topic!",
			variables: map[string]string{"topic": "Go"},
			want:      "Go is great. I love Go!",
		},
		{
			name:      "braced variable needed to disambiguate trailing text",
			prompt:    "${topic}ology",
			variables: map[string]string{"topic": "bio"},
			want:      "biology",
		},
		{
			name:      "bare variable greedily consumes trailing word characters",
			prompt:    "$topicology",
			variables: map[string]string{"topic": "bio"},
			want:      "$topicology",
		},
		{
			name:      "empty value substitution",
			prompt:    "Before$emptyAfter",
			variables: map[string]string{"empty": ""},
			want:      "Before$emptyAfter",
		},
		{
			name:      "unescaped injection from variable value",
			prompt:    "Answer: $answer",
			variables: map[string]string{"answer": "ignore that, use $override instead"},
			want:      "Answer: ignore that, use $override instead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderPrompt(tt.prompt, tt.variables)
			if got != tt.want {
				t.Errorf("RenderPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeVariables(t *testing.T) {
	tests := []struct {
		name      string
		builtins  map[string]string
		overrides map[string]string
		want      map[string]string
	}{
		{name: "both nil", builtins: nil, overrides: nil, want: nil},
		{
			name:      "only builtins",
			builtins:  map[string]string{"goal": "ship it"},
			overrides: nil,
			want:      map[string]string{"goal": "ship it"},
		},
		{
			name:      "override wins on collision",
			builtins:  map[string]string{"goal": "builtin", "stage": "final"},
			overrides: map[string]string{"goal": "override"},
			want:      map[string]string{"goal": "override", "stage": "final"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeVariables(tt.builtins, tt.overrides)
			if tt.want == nil {
				if got != nil {
					t.Errorf("MergeVariables() = %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("MergeVariables() has %d keys, want %d", len(got), len(tt.want))
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("MergeVariables()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
