package refine

import "noterefiner/internal/model"

const basePrompt = `You rewrite rough, shorthand notes into clear professional text.
Keep every fact from the notes. Do not invent names, dates, numbers or outcomes that are not in the notes.
Fix spelling and grammar. Reply with the finished text only, without preamble or commentary.`

var modePrompts = map[model.Mode]string{
	model.ModeTechSupport: `Format the notes as an IT support ticket that can be pasted into Jira, ServiceNow or Zendesk.
Use these sections in order: Summary (one line), Description, Environment, Steps to Reproduce (numbered).
Add an "Actions Taken" section when the notes mention troubleshooting that was already tried.`,

	model.ModeEmail: `Format the notes as a professional email.
Start with a "Subject:" line, then a greeting, a short body in complete sentences, and a polite closing.
Keep the tone measured and courteous even if the notes are blunt.`,

	model.ModeMeetingMinutes: `Format the notes as meeting minutes that focus on outcomes, not the order in which things were said.
Use these sections: Attendees (only if named in the notes), Key Decisions, Action Items, Open Questions.
Write each action item as "Owner: task (due date if given)".`,

	model.ModeKBArticle: `Format the notes as a knowledge base article for Confluence or Notion.
Use a descriptive title, then the sections Problem, Cause (if known), Solution (numbered steps), and Notes.
Write for a reader who has never seen this issue and make the article easy to search.`,
}

// SystemPrompt returns the instructions sent to the model for mode.
// Unknown modes get the base prompt only.
func SystemPrompt(mode model.Mode) string {
	if p, ok := modePrompts[mode]; ok {
		return basePrompt + "\n\n" + p
	}
	return basePrompt
}
