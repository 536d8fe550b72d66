package prompts

import (
	"strings"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
)

const (
	DefaultTopic    = "General topic"
	DefaultLanguage = "English"
)

// Build assembles the instruction text sent to the summarizer. The rules
// block pins the Markdown subset the renderer understands.
func Build(topic, transcript string, mode models.Mode, cfg models.PromptConfig, language string) string {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}

	modeLabel := "Standard (compressed)"
	if mode == models.ModeDetailed {
		modeLabel = "Detailed (expanded)"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cfg.SystemRole)
	b.WriteString("\n\n")
	b.WriteString("Lesson topic: " + topic + "\n")
	b.WriteString("Summary type: " + modeLabel + "\n\n")
	b.WriteString("INSTRUCTION:\n")
	b.WriteString(cfg.Instruction(mode))
	b.WriteString("\n\n")
	b.WriteString("CRITICAL RULES:\n")
	b.WriteString("1. **Do not invent anything**: use only what is in the transcript.\n")
	b.WriteString("2. **Keep terminology**: specific terms and model names stay exactly as written.\n")
	b.WriteString("3. **Structure**: use Markdown only as follows: ## for sections, ### for subsections, " +
		"lines starting with \"- \" or \"* \" for lists, **bold** for emphasis, blank lines between paragraphs.\n")
	b.WriteString("4. **Language**: " + language + ".\n")
	b.WriteString("5. **Output**: return ONLY the summary text in Markdown. No greetings, no extra commentary.\n\n")
	b.WriteString("Here is the transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n")

	return b.String()
}
