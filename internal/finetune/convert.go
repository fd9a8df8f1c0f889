package finetune

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"gymforge/internal/format"
)

// SystemPrompt anchors every exported conversation.
const SystemPrompt = "You are an expert drawing assistant that helps users create drawings by providing precise coordinate instructions. You break down complex drawings into a series of strokes, explaining each step clearly and providing exact coordinates using Python drag commands. Each drag command contains 32 coordinate pairs in absolute values."

// ChatMessage is one turn of the exported dataset. Text and Image are
// mutually exclusive; images serialize as a content array holding a
// JPEG data URI, plain text serializes as a content string.
type ChatMessage struct {
	Role  string
	Text  string
	Image []byte
}

type contentPart struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

// MarshalJSON renders the provider's string-or-array content shape.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type wire struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}
	if len(m.Image) > 0 {
		return json.Marshal(wire{
			Role: m.Role,
			Content: []contentPart{{
				Type: "image_url",
				ImageURL: imageURL{
					URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(m.Image),
				},
			}},
		})
	}
	return json.Marshal(wire{Role: m.Role, Content: m.Text})
}

// Convert assembles conversation turns into the exported shape: a
// system prompt, then the turns with consecutive same-role text turns
// merged, then trailing user turns stripped so every conversation ends
// on an assistant turn. A session with no assistant output reduces to
// just the system prompt.
func Convert(messages []format.Message) []ChatMessage {
	converted := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		converted = append(converted, ChatMessage{
			Role:  msg.Role,
			Text:  msg.Text,
			Image: msg.Image,
		})
	}

	merged := mergeConsecutiveText(converted)

	for len(merged) > 0 && merged[len(merged)-1].Role == format.RoleUser {
		merged = merged[:len(merged)-1]
	}

	out := make([]ChatMessage, 0, len(merged)+1)
	out = append(out, ChatMessage{Role: "system", Text: SystemPrompt})
	return append(out, merged...)
}

// mergeConsecutiveText joins adjacent text turns from the same role
// with a newline. Image turns never merge.
func mergeConsecutiveText(messages []ChatMessage) []ChatMessage {
	var out []ChatMessage
	for _, msg := range messages {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Role == msg.Role && len(last.Image) == 0 && len(msg.Image) == 0 {
				last.Text += "\n" + msg.Text
				continue
			}
		}
		out = append(out, msg)
	}
	return out
}

// BudgetExceededError reports a conversation over the token budget.
type BudgetExceededError struct {
	Tokens int
	Budget int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("conversation holds %d tokens, budget is %d", e.Tokens, e.Budget)
}

// Builder converts sessions and enforces the token budget.
type Builder struct {
	counter *Counter
	budget  int
}

// NewBuilder creates a dataset builder for the given tokenizer model
// and per-conversation token budget.
func NewBuilder(tokenizerModel string, budget int) (*Builder, error) {
	counter, err := NewCounter(tokenizerModel)
	if err != nil {
		return nil, err
	}
	return &Builder{counter: counter, budget: budget}, nil
}

// Build converts one session's turns and returns the conversation with
// its token count. A conversation over budget returns a
// *BudgetExceededError alongside the oversized conversation so callers
// can report its size.
func (b *Builder) Build(messages []format.Message) ([]ChatMessage, int, error) {
	conversation := Convert(messages)
	tokens := b.counter.ConversationTokens(conversation)
	if b.budget > 0 && tokens > b.budget {
		return conversation, tokens, &BudgetExceededError{Tokens: tokens, Budget: b.budget}
	}
	return conversation, tokens, nil
}
