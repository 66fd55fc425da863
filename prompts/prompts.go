package prompts

// Prompt templates for the specification pipeline. Variables use the
// {{name}} syntax understood by Render; {{JSON.stringify(name)}} embeds a
// variable as pretty-printed JSON.
const (
	// SystemPrompt defines the persona shared by all pipeline operations.
	SystemPrompt = `You are an expert product analyst AI. Your sole purpose is to turn short
feature descriptions into precise, structured specification artifacts for
an engineering team: user story, requirements, tasks, risks, and an
estimation. You base your output exclusively on the feature description
and the project context you are given. Your entire response is always a
single valid JSON object with no text, explanations, or Markdown fences
before or after it unless explicitly allowed.`

	// SpecGenerationPrompt is the main prompt: feature input + resolved
	// context in, full structured specification out.
	SpecGenerationPrompt = `<instructions>
Produce a complete feature specification from the feature input below.
Generation mode: {{mode}}. In "detailed" mode expand acceptance criteria,
edge cases, and risks; in "standard" mode keep them focused.
</instructions>

<context>
Project context (glossary, stakeholders, constraints, APIs, data models):
{{JSON.stringify(context)}}
</context>

<feature>
{{JSON.stringify(input)}}
</feature>

<task>
Generate the specification with these fields:

1. **story**: One user story in the "As a ..., I want ..., so that ..." form.
2. **needs_clarification**: Open questions that still block certainty, each
   with "question", "topic", and "rationale". Empty list if none.
3. **assumptions**: Assumptions you made to close gaps in the description.
4. **dependencies**: External systems, teams, or features this depends on.
5. **edge_cases**: Concrete edge cases engineering must handle.
6. **functional_requirements**: Verifiable requirements. Each has "id"
   (format "FR-{{today_id}}-NN"), "title", "description", "priority"
   (low|medium|high), and "acceptance_criteria" (list of strings).
7. **tasks**: Actionable engineering tasks. Each has "id" (format
   "T-{{today_id}}-NN"), "title", "description", "area" (one of: frontend,
   backend, database, api, infra, testing, docs), "estimate", and
   "depends_on" (ids of other tasks in this output).
8. **estimation**: {"confidence": 0.0-1.0, "complexity": one of trivial,
   low, medium, high, very-high, "drivers": [strings]}.
9. **risks**: Each with "description", "severity" (low|medium|high), and
   "mitigation".
</task>

<rules>
- Respect every constraint and non-functional requirement in the context.
- Do not invent stakeholders or systems absent from the input and context.
- Number requirement and task ids sequentially starting from 01.
- Your entire response MUST be a single valid JSON object.
</rules>`

	// ClarifyingQuestionsPrompt asks for questions instead of a spec when the
	// feature description scored as ambiguous.
	ClarifyingQuestionsPrompt = `<instructions>
The feature description below is too ambiguous to specify directly.
Generate the clarifying questions whose answers would remove the most
ambiguity.
</instructions>

<context>
{{JSON.stringify(context)}}
</context>

<feature>
{{JSON.stringify(input)}}
</feature>

<task>
Return 3-7 questions, most important first. Each question has:
- "question": the question to ask the requester
- "topic": the area it clarifies (scope, users, data, integrations, ...)
- "rationale": why the answer matters for the specification

Also return "estimated_confidence": 0.0-1.0, your confidence that a useful
specification could be produced without any answers.
</task>

<rules>
- Ask only questions the description and context cannot answer.
- Your entire response MUST be a single valid JSON object of the form
  {"questions": [...], "estimated_confidence": 0.0}.
</rules>`

	// RefineSpecPrompt embeds an existing specification plus question/answer
	// pairs and requests only the changed fields back.
	RefineSpecPrompt = `<instructions>
Refine the existing specification below using the clarification answers.
</instructions>

<original_specification>
{{JSON.stringify(original)}}
</original_specification>

<clarification_answers>
{{JSON.stringify(answers)}}
</clarification_answers>

<task>
Apply the answers to the specification. Return ONLY the top-level fields
you changed (story, needs_clarification, assumptions, dependencies,
edge_cases, functional_requirements, tasks, estimation, risks). A field
you return replaces the original field wholesale, so always return the
complete new value for that field, never a fragment.
</task>

<rules>
- Omit every field the answers do not affect.
- Remove resolved questions from needs_clarification if you return it.
- Keep id formats and enumerations exactly as in the original.
- Your entire response MUST be a single valid JSON object. Return {} if
  nothing changes.
</rules>`
)
