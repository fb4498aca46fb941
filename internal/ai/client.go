package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/config"
)

// ThoughtInput is a thought sent to the grouping service for analysis.
type ThoughtInput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ProposedCluster is one cluster proposal returned by the grouping service.
type ProposedCluster struct {
	ClusterName string   `json:"clusterName"`
	ThoughtIDs  []string `json:"thoughtIds"`
}

// ConnectionCandidate is a lightweight thought summary submitted for
// connection discovery, addressed by its position in the submitted list.
type ConnectionCandidate struct {
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet"`
	Categories []string `json:"categories"`
}

// IndexedConnection is one pairwise relationship returned by the grouping
// service. Indices are pointers so an omitted field is distinguishable from
// a legitimate index 0.
type IndexedConnection struct {
	Thought1Index *int   `json:"thought1_index"`
	Thought2Index *int   `json:"thought2_index"`
	Reason        string `json:"reason"`
}

// ExtractedThought is one atomic thought produced by the categorization
// service from raw free text.
type ExtractedThought struct {
	Title      string   `json:"title"`
	Snippet    string   `json:"snippet"`
	Categories []string `json:"categories"`
	Content    string   `json:"content"`
}

// Client wraps a Provider with typed, schema-validated calls plus the
// configured timeout and retry budget.
type Client struct {
	provider   Provider
	timeout    time.Duration
	maxRetries int
	log        *zap.Logger
}

// NewClient creates a Client around the given provider.
func NewClient(provider Provider, cfg config.AIConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		provider:   provider,
		timeout:    cfg.Timeout(),
		maxRetries: cfg.MaxRetries,
		log:        log,
	}
}

// completeJSON runs one completion with retries and decodes the result into
// out. Each attempt gets its own timeout. A response that does not decode is
// a malformed-response error, never an empty result.
func (c *Client) completeJSON(ctx context.Context, prompt string, opts CompletionOpts, out interface{}) error {
	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		text, err := c.provider.Complete(attemptCtx, prompt, opts)
		if err != nil {
			if !apperrors.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			c.log.Warn("ai call failed",
				zap.String("provider", c.provider.Name()),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}

		if err := json.Unmarshal([]byte(stripCodeFences(text)), out); err != nil {
			c.log.Warn("ai returned undecodable payload",
				zap.String("provider", c.provider.Name()),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return apperrors.Wrap(err, apperrors.KindMalformedResponse, "decoding ai response")
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)
	return backoff.Retry(operation, policy)
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models emit even when asked for bare JSON.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ProposeClusters submits one chunk of unclustered thoughts and the cluster
// names accumulated so far in the run, and returns the service's proposals.
func (c *Client) ProposeClusters(ctx context.Context, thoughts []ThoughtInput, existingNames []string) ([]ProposedCluster, error) {
	payload, err := json.MarshalIndent(thoughts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling thoughts: %w", err)
	}

	var b strings.Builder
	b.WriteString(`You are an expert personal assistant specializing in organizing information. Your task is to analyze a list of a user's raw, unstructured thoughts and group them into meaningful, thematic clusters.

**Instructions:**
1. **Analyze Holistically:** Read through all the provided thoughts to understand the main themes present.
2. **Form Clusters:** Group thoughts that are clearly related by project, topic, goal, or context.
3. **Name Clusters Concisely:** Create a short, descriptive name for each cluster (3-5 words max). The name should represent the core theme of the thoughts within it.
4. **Be Discerning:** It is better to leave a thought unclustered than to force it into an irrelevant group. Do not create a "Miscellaneous" or "General" cluster. Only cluster thoughts that have strong thematic connections.
5. **Output Format:** You MUST provide your answer in the JSON format specified in the schema.

`)
	if len(existingNames) > 0 {
		b.WriteString("**Existing Clusters:**\nThe following cluster names already exist. Try to add thoughts to these clusters if they fit before creating new ones:\n")
		for _, name := range existingNames {
			b.WriteString("- " + name + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("**Input Thoughts:**\n")
	b.Write(payload)

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"clusters": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"clusterName": map[string]interface{}{
							"type":        "string",
							"description": "A concise, descriptive name for the theme of the cluster (3-5 words max)",
						},
						"thoughtIds": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "An array of the original thought IDs that belong in this cluster",
						},
					},
					"required": []string{"clusterName", "thoughtIds"},
				},
			},
		},
		"required": []string{"clusters"},
	}

	var resp struct {
		Clusters []ProposedCluster `json:"clusters"`
	}
	if err := c.completeJSON(ctx, b.String(), CompletionOpts{ResponseSchema: schema}, &resp); err != nil {
		return nil, err
	}
	return resp.Clusters, nil
}

// SelectRelated submits cluster exemplars plus the unclustered candidates and
// returns the candidate IDs the service judged thematically related. Callers
// must still validate the IDs against the candidate set.
func (c *Client) SelectRelated(ctx context.Context, exemplars []string, candidates []ThoughtInput) ([]string, error) {
	payload, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling candidates: %w", err)
	}

	prompt := fmt.Sprintf(`You are helping a user organize their thoughts. They have a cluster with the following thoughts as examples:

**Example Thoughts in Cluster:**
%s

**Unclustered Thoughts to Evaluate:**
%s

**Task:**
From the list of unclustered thoughts, identify which ones are thematically similar to the example thoughts. Only select thoughts that clearly relate to the same project, topic, goal, or context.

Be selective - only include thoughts that genuinely fit the theme. It's better to return an empty list than to force unrelated thoughts into the cluster.`,
		strings.Join(exemplars, "\n\n"), payload)

	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"thoughtIds": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Array of thought IDs that are thematically related to the cluster",
			},
		},
		"required": []string{"thoughtIds"},
	}

	var resp struct {
		ThoughtIDs []string `json:"thoughtIds"`
	}
	if err := c.completeJSON(ctx, prompt, CompletionOpts{ResponseSchema: schema}, &resp); err != nil {
		return nil, err
	}
	return resp.ThoughtIDs, nil
}

// SuggestConnections submits indexed thought summaries and returns the
// service's pairwise connection suggestions. Indices are validated by the
// caller against the submitted list.
func (c *Client) SuggestConnections(ctx context.Context, candidates []ConnectionCandidate) ([]IndexedConnection, error) {
	var b strings.Builder
	b.WriteString("Analyze these thoughts and find 3-5 surprising, non-obvious connections between them. Focus on thoughts from DIFFERENT categories that share hidden themes or could inspire each other.\n\n")
	for i, cand := range candidates {
		fmt.Fprintf(&b, "%d. %q (%s)\n   %s\n\n", i, cand.Title, strings.Join(cand.Categories, ", "), cand.Snippet)
	}
	b.WriteString(`Return a JSON object with this structure:
{
  "connections": [
    {
      "thought1_index": 0,
      "thought2_index": 3,
      "reason": "Brief explanation of the surprising connection"
    }
  ]
}

Focus on quality over quantity. Only include truly interesting connections.`)

	opts := CompletionOpts{
		JSON:   true,
		System: "You are an expert at finding non-obvious connections between ideas. You look for surprising patterns, complementary concepts, and creative synergies.",
	}

	var resp struct {
		Connections []IndexedConnection `json:"connections"`
	}
	if err := c.completeJSON(ctx, b.String(), opts, &resp); err != nil {
		return nil, err
	}
	return resp.Connections, nil
}

const extractSystemPrompt = `You are a thought processing assistant. Split the input into separate thoughts if there are multiple distinct ideas. For each thought, extract:
1. A concise title (first meaningful sentence)
2. A brief snippet (key points, max 2-3 lines)
3. 1-3 relevant category tags - create appropriate category names based on the content (e.g., Work, Personal, Finance, Health, Travel, Shopping, Study, Family, etc.)

IMPORTANT:
- You must return a JSON object with a "thoughts" array
- Create intuitive, single-word or two-word category names that fit the thought
- Use categories that make sense for organizing and finding thoughts later
- Categories should be capitalized (e.g., "Work", "Personal", "Health")

If the input contains multiple distinct ideas, create separate thought objects. If it's a single thought, return an array with one object. Each thought object has the fields "title", "snippet", "categories" and "content".`

// SuggestCategories asks the categorization service for 2-4 category tags
// fitting a thought's content, steering it away from names the thought
// already carries.
func (c *Client) SuggestCategories(ctx context.Context, content string, existing []string) ([]string, error) {
	system := `Suggest 2-4 relevant category tags for this thought. Avoid duplicating these existing categories: ` +
		strings.Join(existing, ", ") + `.

Choose from: To-Do, Idea, Question, Note, Goal, Reminder, Research, Bug, Feature, or suggest new relevant categories.

Return JSON: {"categories": ["category1", "category2", ...]}`

	opts := CompletionOpts{
		JSON:   true,
		System: system,
	}

	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.completeJSON(ctx, content, opts, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// ExtractThoughts runs the categorization service over raw free text and
// returns the atomic thoughts it found. An empty result for non-empty input
// is valid; the caller applies the fallback.
func (c *Client) ExtractThoughts(ctx context.Context, content string) ([]ExtractedThought, error) {
	opts := CompletionOpts{
		JSON:   true,
		System: extractSystemPrompt,
	}

	var resp struct {
		Thoughts []ExtractedThought `json:"thoughts"`
	}
	if err := c.completeJSON(ctx, content, opts, &resp); err != nil {
		return nil, err
	}
	return resp.Thoughts, nil
}
