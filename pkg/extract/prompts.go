package extract

import (
	"fmt"
	"strings"
)

const hintsSystemPrompt = `You are a typesetting assistant for academic papers.
Read the formatting rules and the request, then answer with a single JSON object
describing the paragraph styles they require. Use only these top-level keys:
global_default, heading_1, heading_2, heading_3, body_text, caption.
Each key maps to an object with any of:
  font_name (string), font_size (number, points), is_bold (boolean),
  is_italic (boolean), align (LEFT|CENTER|RIGHT|JUSTIFY),
  line_spacing (number, multiple of single spacing),
  space_before (number, points), space_after (number, points),
  color (6 hex digits, no '#').
Omit anything the text does not state. Do not add commentary.

%s`

const blocksSystemPrompt = `You split academic drafts into structured content blocks.
Answer with a JSON object {"blocks": [...]} where each block is
{"type": ..., "text": ..., "source_data": ...}.
Allowed types: heading_1, heading_2, heading_3, body_text, caption,
image_hook (figure placeholder; put the figure reference in source_data),
table_hook (table placeholder; put the table description in source_data).
Keep the author's wording exactly. Preserve order. Do not add commentary.`

func hintsPrompts(fonts *FontTable, ruleContext, instruction string) (string, string) {
	system := fmt.Sprintf(hintsSystemPrompt, fonts.PromptTable())

	var user strings.Builder
	if rules := strings.TrimSpace(ruleContext); rules != "" {
		user.WriteString("Formatting rules:\n")
		user.WriteString(rules)
		user.WriteString("\n\n")
	}
	if req := strings.TrimSpace(instruction); req != "" {
		user.WriteString("Request:\n")
		user.WriteString(req)
		user.WriteString("\n")
	}
	return system, strings.TrimSpace(user.String())
}

func blocksPrompts(draft string) (string, string) {
	return blocksSystemPrompt, "Draft:\n" + draft
}
