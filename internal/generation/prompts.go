package generation

import (
	"fmt"

	"github.com/nexusboard/nexus-api/internal/domain"
)

// Prompt builders shared by the provider implementations. Every prompt
// that expects structured output states the exact JSON shape, because the
// response is parsed defensively and anything that cannot be recovered as
// JSON counts as a provider failure.

func taskContext(task *domain.Task) string {
	return fmt.Sprintf(
		"Task: %s\nDescription: %s\nProduct: %s\nType: %s\nPriority: %s",
		task.Title, task.Description, task.Product, task.Type, task.Priority,
	)
}

// ExecutionPlanPrompt asks for 3-6 concrete subtasks as a JSON array.
func ExecutionPlanPrompt(task *domain.Task) string {
	return fmt.Sprintf(`You are a senior project planner.
Break the following task into 3-6 concrete, actionable subtasks.

%s

Respond with a JSON array only, no prose:
[{"title": "first step"}, {"title": "second step"}]`, taskContext(task))
}

// AcceptanceCriteriaPrompt asks for definition-of-done statements as a
// JSON array of strings.
func AcceptanceCriteriaPrompt(task *domain.Task) string {
	return fmt.Sprintf(`You are a quality-focused product manager.
Write 3-5 verifiable acceptance criteria (definition of done) for the
following task.

%s

Respond with a JSON array of strings only, no prose:
["criterion one", "criterion two"]`, taskContext(task))
}

// SolutionDraftPrompt asks for a free-form markdown proposal.
func SolutionDraftPrompt(task *domain.Task) string {
	return fmt.Sprintf(`You are an experienced engineer.
Draft a concise markdown proposal describing how to approach the
following task. Include a short outline and, where useful, example code.

%s`, taskContext(task))
}

// RecommendResourcesPrompt asks for learning references as a JSON array.
func RecommendResourcesPrompt(task *domain.Task) string {
	return fmt.Sprintf(`You are a learning curator.
Recommend 2-4 high-quality learning resources (documentation, guides,
articles) that would help someone complete the following task.

%s

Respond with a JSON array only, no prose:
[{"title": "...", "url": "https://...", "description": "..."}]`, taskContext(task))
}

// DraftTasksPrompt asks for exactly three alternative task drafts.
func DraftTasksPrompt(rawInput string) string {
	return fmt.Sprintf(`You are an assistant that turns rough requests into
well-formed work items. Produce exactly 3 alternative task drafts for the
raw input below, each with a different angle or scope.

Raw input: %s

Respond with a JSON array only, no prose:
[{"title": "...", "description": "...", "priority": "HIGH|MEDIUM|LOW",
  "product": "...", "type": "..."}]`, rawInput)
}

// AnalyzeResourcePrompt asks for a structured study card for a URL.
func AnalyzeResourcePrompt(url string, resourceType domain.ResourceType) string {
	return fmt.Sprintf(`You are an expert knowledge analyst.
Analyze the content of the following URL (%s) and create a structured
study card.

URL: %s

Respond with a JSON object only, no prose:
{"title": "exact title",
 "summary": "3-line summary",
 "tags": ["..."],
 "difficulty": "Beginner|Intermediate|Advanced",
 "keyPoints": ["main takeaways"],
 "chapters": [{"timestamp": "...", "title": "..."}]}`, resourceType, url)
}
