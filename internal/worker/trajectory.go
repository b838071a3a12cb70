// ABOUTME: Trajectory flush: keeps the Worker conversation within context budget
// ABOUTME: Long-context providers drop old images; short-context providers drop whole turn pairs

package worker

import "github.com/mauromedda/desktop-agent-go/pkg/ai"

// flush applies the configured trajectory policy to w.messages in place.
func (w *Worker) flush() {
	if w.cfg.LongContext {
		w.messages = capImages(w.messages, w.cfg.MaxImages)
		return
	}
	// w.messages holds only user/assistant turns (the system prompt travels
	// separately as ai.Context.System), so the oldest round starts at index
	// 0 here, unlike a conversation where index 0 is the system message.
	maxLen := 2*w.cfg.MaxTrajectoryLength + 1
	for len(w.messages) > maxLen {
		w.messages = dropRoundAt(w.messages, 0)
	}
}

// capImages walks messages newest-to-oldest, keeping at most max image
// content parts total; text parts are never dropped. Message ordering is
// preserved in the returned slice.
func capImages(messages []ai.Message, max int) []ai.Message {
	kept := 0
	keepImage := make([]bool, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		hasImage := false
		for _, c := range messages[i].Content {
			if c.Type == ai.ContentImage {
				hasImage = true
				break
			}
		}
		if hasImage && kept < max {
			keepImage[i] = true
			kept++
		}
	}

	out := make([]ai.Message, len(messages))
	for i, m := range messages {
		if keepImage[i] {
			out[i] = m
			continue
		}
		var textOnly []ai.Content
		for _, c := range m.Content {
			if c.Type != ai.ContentImage {
				textOnly = append(textOnly, c)
			}
		}
		out[i] = ai.Message{Role: m.Role, Content: textOnly}
	}
	return out
}

// dropRoundAt removes one user+assistant pair starting at index i, leaving
// the system-prompt-adjacent head of the conversation untouched.
func dropRoundAt(messages []ai.Message, i int) []ai.Message {
	if i < 0 || i+1 >= len(messages) {
		return messages
	}
	out := make([]ai.Message, 0, len(messages)-2)
	out = append(out, messages[:i]...)
	out = append(out, messages[i+2:]...)
	return out
}
