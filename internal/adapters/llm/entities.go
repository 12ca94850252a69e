package llm

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []ChatCompletionChoice `json:"choices"`
}

type ChatCompletionChoice struct {
	Message ChatCompletionMessage `json:"message"`
}

type GenerationParameters struct {
	Temperature      float32
	TopP             float32
	TopK             int32
	MaxOutputTokens  int64
	ResponseMIMEType string
}

// DetectPrompt is the shared system prompt for spam verdicts.
const DetectPrompt = "You are a spam detection system. Analyze the following reply to a crypto trading bot's post and respond with true if it's spam, false if it's not. Consider advertising, scam links, impersonation, and engagement farming as spam."
