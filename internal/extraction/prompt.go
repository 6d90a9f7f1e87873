package extraction

import "profile-extractor/internal/shared/util"

// SchemaName labels the record shape in provider requests.
const SchemaName = "profile"

const systemInstruction = `You convert the text of a resume or professional profile into one JSON object that matches the provided response schema.

Rules:
1. Use only information present in the text. Never invent or infer facts. When the text has no evidence for a field, use "" for strings and [] for lists.
2. Output exactly one JSON object. No prose, no explanations, no markdown code fences.
3. basics.summary is only the short professional summary (1-2 sentences) as written. Stop before any skills, experience, projects or education section. Never copy skills, projects or work history into the summary.
4. projects[].url is set only when a fully qualified URL (starting with http:// or https://) is written literally in the text for that project. Link labels such as "Live Demo", "GitHub" or "Link" without a written URL mean url is "".
5. skills lists individual skills, tools and technologies, one per entry.
6. Put content that fits no named field (certifications, publications, languages, volunteering) into otherSections with its heading as title, instead of dropping it.
7. Keep dates as written in the text.`

// Prompt is the system instruction and user payload for one extraction call.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt returns the fixed instruction with text as the user payload.
func BuildPrompt(text string) Prompt {
	return Prompt{System: systemInstruction, User: text}
}

// Hash is a stable digest of the full prompt, logged for diagnostics.
func (p Prompt) Hash() string {
	return util.SHA256Hex(p.System + "\n\n" + p.User)
}
