package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if err := set.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// Prompts go through an FString template; stray braces would be read
	// as placeholders.
	for name, p := range map[string]string{"classifier": set.Classifier, "composer": set.Composer} {
		if strings.ContainsAny(p, "{}") {
			t.Fatalf("%s prompt contains template braces", name)
		}
	}
}
