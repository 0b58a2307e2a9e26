// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"
)

// Reply is what the stub answers for a matched prompt.
type Reply struct {
	Text string
	Err  error
}

// Stub answers prompts from a table of substring rules. Rules are checked in the order
// they were added; the first rule whose substring occurs in the prompt wins. Prompts
// that match no rule get Default. All prompts are recorded.
type Stub struct {
	Default Reply

	mu      sync.Mutex
	rules   []rule
	prompts []string
}

type rule struct {
	contains string
	reply    Reply
}

// On registers a reply for prompts containing substr.
func (s *Stub) On(substr, text string) *Stub {
	return s.OnReply(substr, Reply{Text: text})
}

// OnReply registers a full reply, including an error, for prompts containing substr.
func (s *Stub) OnReply(substr string, reply Reply) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rule{contains: substr, reply: reply})
	return s
}

// Complete implements llm.Completer.
func (s *Stub) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, r := range s.rules {
		if strings.Contains(prompt, r.contains) {
			return r.reply.Text, r.reply.Err
		}
	}
	return s.Default.Text, s.Default.Err
}

// Prompts returns a copy of every prompt received so far.
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Calls returns how many prompts were received.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
