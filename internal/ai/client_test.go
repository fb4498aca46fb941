package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/config"
)

// stubProvider returns canned responses in order, repeating the last one.
type stubProvider struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
	opts      []CompletionOpts
}

func (s *stubProvider) Complete(_ context.Context, prompt string, opts CompletionOpts) (string, error) {
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.opts = append(s.opts, opts)
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return s.responses[idx], err
}

func (s *stubProvider) Name() string { return "stub" }

func newTestClient(p Provider, maxRetries int) *Client {
	return NewClient(p, config.AIConfig{TimeoutSeconds: 5, MaxRetries: maxRetries}, nil)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"no closing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompleteJSONRetriesMalformed(t *testing.T) {
	stub := &stubProvider{responses: []string{"not json"}}
	client := newTestClient(stub, 2)

	var out map[string]interface{}
	err := client.completeJSON(context.Background(), "p", CompletionOpts{}, &out)
	if apperrors.KindOf(err) != apperrors.KindMalformedResponse {
		t.Fatalf("kind = %v, want %v", apperrors.KindOf(err), apperrors.KindMalformedResponse)
	}
	// Initial attempt plus two retries.
	if stub.calls != 3 {
		t.Errorf("calls = %d, want 3", stub.calls)
	}
}

func TestCompleteJSONRecoversOnRetry(t *testing.T) {
	stub := &stubProvider{responses: []string{"oops", `{"ok":true}`}}
	client := newTestClient(stub, 2)

	var out map[string]interface{}
	if err := client.completeJSON(context.Background(), "p", CompletionOpts{}, &out); err != nil {
		t.Fatalf("completeJSON() error = %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
	if out["ok"] != true {
		t.Errorf("out = %v", out)
	}
}

func TestCompleteJSONNonRetryableStopsImmediately(t *testing.T) {
	authErr := apperrors.New(apperrors.KindAuth, "bad key")
	stub := &stubProvider{responses: []string{""}, errs: []error{authErr}}
	client := newTestClient(stub, 5)

	var out map[string]interface{}
	err := client.completeJSON(context.Background(), "p", CompletionOpts{}, &out)
	if apperrors.KindOf(err) != apperrors.KindAuth {
		t.Fatalf("kind = %v, want %v", apperrors.KindOf(err), apperrors.KindAuth)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on non-retryable errors)", stub.calls)
	}
}

func TestCompleteJSONRetriesExternal(t *testing.T) {
	extErr := apperrors.New(apperrors.KindExternal, "upstream down")
	stub := &stubProvider{
		responses: []string{"", `{"ok":1}`},
		errs:      []error{extErr, nil},
	}
	client := newTestClient(stub, 3)

	var out map[string]interface{}
	if err := client.completeJSON(context.Background(), "p", CompletionOpts{}, &out); err != nil {
		t.Fatalf("completeJSON() error = %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
}

func TestProposeClustersDecodesFencedJSON(t *testing.T) {
	stub := &stubProvider{responses: []string{
		"```json\n{\"clusters\":[{\"clusterName\":\"Fitness\",\"thoughtIds\":[\"a\",\"b\"]}]}\n```",
	}}
	client := newTestClient(stub, 0)

	clusters, err := client.ProposeClusters(context.Background(),
		[]ThoughtInput{{ID: "a", Text: "run"}, {ID: "b", Text: "lift"}},
		[]string{"Work"})
	if err != nil {
		t.Fatalf("ProposeClusters() error = %v", err)
	}
	if len(clusters) != 1 || clusters[0].ClusterName != "Fitness" || len(clusters[0].ThoughtIDs) != 2 {
		t.Errorf("clusters = %+v", clusters)
	}

	prompt := stub.prompts[0]
	for _, want := range []string{"Work", `"id": "a"`, "Existing Clusters"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSelectRelatedDecodes(t *testing.T) {
	stub := &stubProvider{responses: []string{`{"thoughtIds":["x","y"]}`}}
	client := newTestClient(stub, 0)

	ids, err := client.SelectRelated(context.Background(),
		[]string{"exemplar one", "exemplar two"},
		[]ThoughtInput{{ID: "x", Text: "a"}, {ID: "y", Text: "b"}})
	if err != nil {
		t.Fatalf("SelectRelated() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "x" {
		t.Errorf("ids = %v", ids)
	}
}

func TestSuggestConnectionsDecodes(t *testing.T) {
	stub := &stubProvider{responses: []string{
		`{"connections":[{"thought1_index":0,"thought2_index":1,"reason":"both about mornings"}]}`,
	}}
	client := newTestClient(stub, 0)

	conns, err := client.SuggestConnections(context.Background(), []ConnectionCandidate{
		{Title: "a", Snippet: "sa", Categories: []string{"Health"}},
		{Title: "b", Snippet: "sb", Categories: []string{"Work"}},
	})
	if err != nil {
		t.Fatalf("SuggestConnections() error = %v", err)
	}
	if len(conns) != 1 {
		t.Fatalf("connections = %+v", conns)
	}
	if conns[0].Thought1Index == nil || *conns[0].Thought1Index != 0 {
		t.Errorf("thought1_index = %v", conns[0].Thought1Index)
	}
	if conns[0].Reason != "both about mornings" {
		t.Errorf("reason = %q", conns[0].Reason)
	}
}

func TestExtractThoughtsDecodes(t *testing.T) {
	stub := &stubProvider{responses: []string{
		`{"thoughts":[{"title":"Buy milk","snippet":"grocery run","categories":["Shopping"],"content":"buy milk on the way home"}]}`,
	}}
	client := newTestClient(stub, 0)

	thoughts, err := client.ExtractThoughts(context.Background(), "buy milk on the way home")
	if err != nil {
		t.Fatalf("ExtractThoughts() error = %v", err)
	}
	if len(thoughts) != 1 || thoughts[0].Title != "Buy milk" || thoughts[0].Categories[0] != "Shopping" {
		t.Errorf("thoughts = %+v", thoughts)
	}
}

func TestSuggestCategoriesDecodes(t *testing.T) {
	stub := &stubProvider{responses: []string{`{"categories":["Idea","Research"]}`}}
	client := newTestClient(stub, 0)

	categories, err := client.SuggestCategories(context.Background(), "look into raised garden beds", []string{"Garden", "Home"})
	if err != nil {
		t.Fatalf("SuggestCategories() error = %v", err)
	}
	if len(categories) != 2 || categories[0] != "Idea" || categories[1] != "Research" {
		t.Errorf("categories = %v", categories)
	}

	if stub.prompts[0] != "look into raised garden beds" {
		t.Errorf("prompt = %q", stub.prompts[0])
	}
	system := stub.opts[0].System
	if !strings.Contains(system, "Garden, Home") {
		t.Errorf("system instruction missing existing categories: %q", system)
	}
}
