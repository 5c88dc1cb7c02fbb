// Package history keeps the chat transcript of a session and hands the
// generation client a bounded, role-filtered slice of it.
package history

import "sync"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// diagnostics shown in the transcript but never sent to a model
	RoleError Role = "error"
)

// number of prior turns sent with a request unless configured otherwise
const DefaultTurns = 6

// represents a single transcript entry
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Buffer is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Buffer {
	return &Buffer{}
}

// appends an entry to the transcript
func (b *Buffer) Append(role Role, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, Entry{Role: role, Content: content})
}

// returns a copy of the full transcript
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)

	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = nil
}

// BuildContext returns the last maxTurns user/assistant entries in
// chronological order, excluding the most recent one. The caller appends the
// in-flight prompt before building context, so the newest entry is the prompt
// itself and must not be sent twice.
func (b *Buffer) BuildContext(maxTurns int) []Entry {
	if maxTurns <= 0 {
		return []Entry{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	conversational := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		if e.Role == RoleUser || e.Role == RoleAssistant {
			conversational = append(conversational, e)
		}
	}

	if len(conversational) == 0 {
		return []Entry{}
	}

	conversational = conversational[:len(conversational)-1]

	if len(conversational) > maxTurns {
		conversational = conversational[len(conversational)-maxTurns:]
	}

	out := make([]Entry, len(conversational))
	copy(out, conversational)

	return out
}
