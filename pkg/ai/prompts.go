package ai

import "fmt"

// Prompt versions feed the analysis fingerprint. Bump a version whenever its
// prompt or schema text changes so older cache entries stop matching.
const (
	ClientReportPromptVersion = "client-report/v2"
	DesignBriefPromptVersion  = "design-brief/v1"
	ImagePromptVersion        = "image-prompt/v1"
)

// maxImagePromptChars caps the prompt sent to the image API.
const maxImagePromptChars = 900

const clientReportSchema = `{
  "client_name": "string - name of the client",
  "topic": "string - main topic of conversation",
  "main_request": "string - primary request or need",
  "sentiment": {
    "label": "string - sentiment label (positive/neutral/negative)",
    "score": "integer 1-5 - sentiment score"
  },
  "summary": "string - brief summary of the dialogue",
  "key_points": ["string", "string", ...] - list of key points,
  "next_steps": ["string", "string", ...] - recommended action items,
  "desired_timeline": "string or null - desired deadline/timeline if mentioned (e.g., '2 months', 'before inventory')",
  "budget_range": "string or null - budget or cost expectations if mentioned (e.g., 'limited budget', 'cloud pricing')",
  "core_requirements": ["string", "string", ...] - list of core features/requirements that MUST be in final product (can be empty list if none mentioned)
}`

const designBriefSchema = `{
  "project_name": "string - project name",
  "business": "string - business domain or type",
  "site_goal": "string - primary goal of the site",
  "target_audience": ["string", "string", ...] - target audience segments,
  "pages": ["string", "string", ...] - list of required pages,
  "style_keywords": ["string", "string", ...] - style keywords for design direction,
  "colors": ["string", "string", ...] - preferred or reference colors,
  "must_have": ["string", "string", ...] - must-have features or sections,
  "avoid": ["string", "string", ...] - things to avoid in design,
  "content_notes": "string or null - additional content notes"
}`

const imageSystemPrompt = "You are an expert visual prompt writer. " +
	"Return a single-line image prompt with no explanations. " +
	"Maximum length: 900 characters."

func analysisSystemPrompt() string {
	return fmt.Sprintf(`You are an expert analyst for client conversations.
Analyze the provided dialogue transcript and extract structured information.

You MUST respond with ONLY valid JSON, no additional text or explanations.
Use the following schema:

%s

Important:
- Extract the client's name from the dialogue
- Identify the main topic and primary request
- Analyze sentiment (positive/neutral/negative) and rate it 1-5
- Provide a concise summary
- List 3-7 key points discussed
- Suggest 2-5 concrete next steps
- Extract desired timeline/deadline if mentioned (or null if not)
- Extract budget/cost expectations if mentioned (or null if not)
- List core requirements - specific features/capabilities that MUST be in the final product
- Output ONLY the JSON object, nothing else`, clientReportSchema)
}

func analysisUserPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze this client dialogue transcript:

%s

Respond with ONLY valid JSON following the schema provided.`, transcript)
}

func briefSystemPrompt() string {
	return fmt.Sprintf(`You are an expert design strategist.
Extract a design brief from the provided transcript.

You MUST respond with ONLY valid JSON, no additional text or explanations.
Use the following schema:

%s

Important:
- Provide clear, concise strings
- All list fields must be arrays (can be empty if not mentioned)
- content_notes should be null if not mentioned
- Output ONLY the JSON object, nothing else`, designBriefSchema)
}

func briefUserPrompt(transcript string) string {
	return fmt.Sprintf(`Extract a design brief from this transcript:

%s

Respond with ONLY valid JSON following the schema provided.`, transcript)
}

func correctionPrompt(schema string, cause error) string {
	return fmt.Sprintf(`The previous response was not valid JSON or didn't match the required schema.
Error: %v

Please provide ONLY valid JSON following this exact schema:
%s

No explanations, no markdown formatting, just pure JSON.`, cause, schema)
}
