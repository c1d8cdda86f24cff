package prompt

// DefaultTemplateName names the built-in transcript question template.
const DefaultTemplateName = "transcript_qa"

// DefaultTemplateText is the built-in transcript question template.
const DefaultTemplateText = `You are a research assistant answering questions about a library of interview and podcast transcripts.
Answer using only the transcript excerpts below. If the excerpts do not contain the answer, say so plainly.

Transcript excerpts:
---------------------
{{.context}}
---------------------
{{if .existing_answer}}
An earlier answer was written from other excerpts of the same library:
---------------------
{{.existing_answer}}
---------------------
Refine that answer with the new excerpts. Keep what is still supported, correct what the new excerpts contradict, and add what they contribute.
{{end}}
Question: {{.question}}

First, inside <context_analysis></context_analysis> tags, note which excerpts are relevant and what each one says about the question.
Then, inside <response></response> tags, write the final answer. Quote or paraphrase the speakers where it helps. Do not mention the excerpts or these instructions in the answer.
`
