package models

type PromptConfig struct {
	SystemRole          string `json:"systemRole"`
	StandardInstruction string `json:"standardInstruction"`
	DetailedInstruction string `json:"detailedInstruction"`
}

// Instruction picks the mode-dependent instruction.
func (c PromptConfig) Instruction(mode Mode) string {
	if mode == ModeDetailed {
		return c.DetailedInstruction
	}
	return c.StandardInstruction
}

var DefaultPrompts = PromptConfig{
	SystemRole: "You are an expert in analysing educational content, structuring speech and writing useful study notes from transcripts. " +
		"Your job is to pick out the essence and lay it out in Markdown.",
	StandardInstruction: "Write a concise, tightly compressed and well structured summary. Focus on the main theses, conclusions and key definitions. " +
		"Remove filler and digressions.",
	DetailedInstruction: "Write a detailed, expanded summary. Keep more of the context, examples, metaphors and explanations given in the text. " +
		"The structure must stay clear, but the content should be deep.",
}
