package noteservice

import "context"

// StaticPrompter satisfies Prompter with pre-supplied content. It is
// the shape a non-interactive host uses: the dialog was already
// answered by the request payload before the flow started.
type StaticPrompter struct {
	Text      string
	Cancelled bool
}

// Prompt returns the pre-supplied answer.
func (p StaticPrompter) Prompt(_ context.Context, _ PromptRequest) (string, bool, error) {
	if p.Cancelled {
		return "", false, nil
	}
	return p.Text, true, nil
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(ctx context.Context, req PromptRequest) (string, bool, error)

// Prompt calls f.
func (f PromptFunc) Prompt(ctx context.Context, req PromptRequest) (string, bool, error) {
	return f(ctx, req)
}
