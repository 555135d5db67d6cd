package onboarding

import "github.com/google/uuid"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the transcript of one principal. ID changes every time the
// transcript is cleared.
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	PrincipalID uuid.UUID `json:"principalId"`
	Messages    []Message `json:"messages"`
}

// UserMessages returns the user turns in order.
func (c *Conversation) UserMessages() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}
