// Package assistant builds the prompts behind the chat endpoints and cleans up
// the replies.
package assistant

import (
	"context"
	_ "embed"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
)

// MaxHistory is how many trailing turns are replayed into a prompt.
const MaxHistory = 10

const (
	defaultRole       = "Software Engineer"
	defaultTopic      = "General"
	defaultDifficulty = "Medium"
)

var (
	//go:embed prompts/interview_start.md
	interviewStartTemplate string
	//go:embed prompts/interview_chat.md
	interviewChatTemplate string
	//go:embed prompts/assistant.md
	assistantTemplate string
)

// Generator produces a reply for a prompt. ai.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Turn is one chat message as sent by the frontend. Sender is "user", "ai" or "bot".
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type Service struct {
	generator Generator
	logger    *zap.Logger
}

func New(generator Generator, log *zap.Logger) *Service {
	return &Service{generator: generator, logger: logger.Component(log, "assistant")}
}

// InterviewStart opens a mock interview and returns the first question.
func (s *Service) InterviewStart(ctx context.Context, role, topic, difficulty string) string {
	prompt := fill(interviewStartTemplate, map[string]string{
		"ROLE":       orDefault(role, defaultRole),
		"TOPIC":      orDefault(topic, defaultTopic),
		"DIFFICULTY": orDefault(difficulty, defaultDifficulty),
	})
	s.logger.Debug("interview started", zap.String("role", role), zap.String("difficulty", difficulty))
	return StripMarkdown(s.generator.Generate(ctx, prompt))
}

// InterviewChat continues a mock interview.
func (s *Service) InterviewChat(ctx context.Context, message string, history []Turn) string {
	prompt := fill(interviewChatTemplate, map[string]string{
		"HISTORY": formatHistory(history, "Candidate", "Interviewer"),
		"MESSAGE": strings.TrimSpace(message),
	})
	return StripMarkdown(s.generator.Generate(ctx, prompt))
}

// Chat answers a student as CampusBot.
func (s *Service) Chat(ctx context.Context, message string, history []Turn) string {
	prompt := fill(assistantTemplate, map[string]string{
		"HISTORY": formatHistory(history, "Student", "CampusBot"),
		"MESSAGE": strings.TrimSpace(message),
	})
	return strings.TrimSpace(s.generator.Generate(ctx, prompt))
}

// Recent returns the last MaxHistory turns.
func Recent(history []Turn) []Turn {
	if len(history) <= MaxHistory {
		return history
	}
	return history[len(history)-MaxHistory:]
}

func formatHistory(history []Turn, userLabel, botLabel string) string {
	recent := Recent(history)
	if len(recent) == 0 {
		return "(no previous messages)"
	}

	var b strings.Builder
	for _, turn := range recent {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		label := botLabel
		if strings.EqualFold(strings.TrimSpace(turn.Sender), "user") {
			label = userLabel
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(text)
	}
	if b.Len() == 0 {
		return "(no previous messages)"
	}
	return b.String()
}

func fill(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(out)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

var (
	codeFence  = regexp.MustCompile("(?m)^[ \t]*```[a-zA-Z0-9_-]*[ \t]*\n?")
	heading    = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	bullet     = regexp.MustCompile(`(?m)^([ \t]*)[*+-][ \t]+`)
	emphasis   = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	italic     = regexp.MustCompile(`(^|[^*\w])\*([^*\n]+)\*`)
	inlineCode = regexp.MustCompile("`([^`]*)`")
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes common markdown markup so replies read as plain text.
func StripMarkdown(s string) string {
	s = codeFence.ReplaceAllString(s, "")
	s = heading.ReplaceAllString(s, "")
	s = bullet.ReplaceAllString(s, "$1")
	s = emphasis.ReplaceAllString(s, "$2")
	s = italic.ReplaceAllString(s, "$1$2")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
