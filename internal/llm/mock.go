package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator answers without calling a provider. The text is derived
// from the prompt so the same question always gets the same answer.
type MockGenerator struct{}

func (MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	question := prompt
	if i := strings.LastIndex(prompt, "USER QUESTION:\n"); i >= 0 {
		question = prompt[i+len("USER QUESTION:\n"):]
	}
	return fmt.Sprintf("- (mock) No language model is configured.\n- Question received: %q\n- Set GEMINI_API_KEY to get real answers.", strings.TrimSpace(question)), nil
}
