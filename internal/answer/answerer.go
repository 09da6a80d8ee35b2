package answer

import (
	"errors"

	"github.com/yildizm/go-promptfmt"

	"ytchat/internal/domain"
)

// Mode selects how the prompt context is assembled.
type Mode string

const (
	// ModeRAG fills the template with retrieved chunks.
	ModeRAG Mode = "rag"
	// ModeFull stuffs the entire transcript into the template.
	ModeFull Mode = "full"
)

// ModelClient is the completion side of a language model API.
type ModelClient interface {
	Generate(systemPrompt, userPrompt string) (string, error)
}

// Answerer assembles transcript context and a question into a prompt
// and asks the language model. The instructions pin the model to the
// supplied context; that constraint is prompt-level only, never
// enforced programmatically.
type Answerer struct {
	model ModelClient
	mode  Mode
}

// New creates an answerer in the given mode.
func New(model ModelClient, mode Mode) *Answerer {
	if mode != ModeFull {
		mode = ModeRAG
	}
	return &Answerer{model: model, mode: mode}
}

// Mode reports the configured prompt assembly mode.
func (a *Answerer) Mode() Mode { return a.mode }

const systemPrompt = `You are a helpful YouTube Video Assistant. Your job is to answer questions based on the video transcript provided.

IMPORTANT INSTRUCTIONS:
- Use ONLY the information from the context (video transcript) below
- Provide detailed, well-structured answers
- If the answer cannot be found in the transcript, clearly state: "This information is not available in the video transcript."
- Quote relevant parts when helpful
- Be conversational and helpful`

// Answer sends the question with its context to the model and returns
// the response text unmodified.
func (a *Answerer) Answer(question, context string) (string, error) {
	if question == "" {
		return "", errors.New("empty question")
	}
	var prompt *promptfmt.Prompt
	if a.mode == ModeFull {
		prompt = promptfmt.New().
			System(systemPrompt).
			User("VIDEO TRANSCRIPT:\n%s\n\nUSER QUESTION: %s\n\nDETAILED ANSWER:", context, question).
			Build()
	} else {
		prompt = promptfmt.New().
			System(systemPrompt).
			User("Context from video transcript:\n%s\n\nQuestion: %s\n\nDetailed Answer:", context, question).
			Build()
	}
	text, err := a.model.Generate(prompt.SystemPrompt, prompt.String())
	if err != nil {
		if domain.KindOf(err) != domain.KindUnknown {
			return "", err
		}
		return "", domain.NewModelInvocationFailed(err)
	}
	return text, nil
}

// JoinContext concatenates retrieved chunk texts into the context block
// of the retrieval prompt, most-similar first.
func JoinContext(results []domain.SearchResult) string {
	out := ""
	for i, r := range results {
		if i > 0 {
			out += "\n\n"
		}
		out += r.Chunk.Text
	}
	return out
}
