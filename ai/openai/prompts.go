package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/tenderidx/ai"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "client": {"type": "string"},
    "sector": {"type": "string"},
    "country": {"type": "string"},
    "tender_number": {"type": "string"},
    "technical_summary": {"type": "string"},
    "pricing_summary": {"type": "string"},
    "total_price": {"type": "number", "minimum": 0},
    "margin_info": {"type": "string"},
    "technologies": {"type": "array", "items": {"type": "string"}},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "full_summary": {"type": "string"}
  },
  "required": ["title", "full_summary"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You are a senior bid analyst at a technology systems integrator. You are given
the combined text of the documents inside one past tender proposal folder.
Extract structured metadata describing that proposal and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "title" is a short descriptive name of the proposed project, not the file name.
- "sector" should be one of: %s. Pick the closest match.
- "total_price" is the total offered price as a plain number; use 0 if the documents do not state one.
- Sections labeled FINANCIAL DATA come from spreadsheets; prefer them for pricing and margin fields.
- "technologies" lists concrete products, vendors, or platforms mentioned (e.g. "cisco", "vmware").
- "keywords" lists 5-15 short search terms a colleague might use to find this proposal later.
- "technical_summary" and "pricing_summary" are 2-4 sentences each; "full_summary" is one paragraph.
- Use empty strings for fields the documents do not support. Do not hallucinate.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildSystemPrompt creates the extraction system prompt with the schema
// and sector list embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(ai.Sectors, ", "))
}

// buildUserPrompt assembles the per-folder extraction request.
func buildUserPrompt(folderName string, fileNames []string, combinedText string) string {
	return fmt.Sprintf(
		"Analyze the following past proposal documents from folder '%s' and extract structured metadata.\n\nFiles: %s\n\n%s",
		folderName,
		strings.Join(fileNames, ", "),
		combinedText)
}
