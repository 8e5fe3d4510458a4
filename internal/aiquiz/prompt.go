package aiquiz

import "fmt"

const (
	defaultCount      = 3
	maxCount          = 10
	defaultDifficulty = "medium"
)

const systemPrompt = `
You write multiple-choice questions for an online learning platform.

General rules:
1. Only write questions about study subjects (mathematics, physics, chemistry, biology, history, geography, literature, languages and similar).
2. Each question has exactly four choices.
3. Usually exactly one choice is correct. A question may have several correct choices only when the wording makes that explicit.
4. Rate the difficulty as easy, medium or hard.

Expected JSON format:

[
  {
    "topic": "<topic>",
    "difficulty": "<easy | medium | hard>",
    "question": "<question text>",
    "choices": [
      "A) ...",
      "B) ...",
      "C) ...",
      "D) ..."
    ],
    "correct_answers": ["C"],
    "explanation": "<short explanation of the correct answer>"
  }
]

Quality guidelines:
- Do not make the correct answer obvious. All choices must have similar length and structure.
- Use plausible distractors.
- Easy means definitions, medium means applying a concept, hard means analysis or calculation.
- Never reveal the answer in the question text.
- Keep each choice under 150 characters.
- Return pure valid JSON only, with no text outside the JSON.
`

func normalize(req DraftRequest) DraftRequest {
	if req.Count <= 0 {
		req.Count = defaultCount
	}
	if req.Count > maxCount {
		req.Count = maxCount
	}
	if req.Difficulty == "" {
		req.Difficulty = defaultDifficulty
	}
	return req
}

func BuildUserPrompt(req DraftRequest) string {
	req = normalize(req)

	context := ""
	if req.Context != "" {
		context = fmt.Sprintf("Use the following context for the questions: %s. ", req.Context)
	}

	return fmt.Sprintf(
		"Write %d multiple-choice questions about %q with %q difficulty. %s"+
			"Follow the format from the system prompt and put the explanation in the 'explanation' field.",
		req.Count, req.Topic, req.Difficulty, context,
	)
}
