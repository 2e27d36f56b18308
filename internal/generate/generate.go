// Package generate walks a topic tree depth-first and fills node content by
// prompting the LLM gateway once per node, with correctly scoped ancestor
// context. Both pipeline stages (lesson plan, lecture notes) share the same
// traversal shape.
package generate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nmehta/coursegen/internal/llm"
	"github.com/nmehta/coursegen/internal/prompt"
	"github.com/nmehta/coursegen/internal/topictree"
)

// NodeFailure records one node whose generation failed. The traversal
// continues past failures; the document is produced with gaps.
type NodeFailure struct {
	NodeID string `json:"node_id"`
	Stage  string `json:"stage"`
	Cause  string `json:"cause"`
}

const (
	StagePlan  = "lesson_plan"
	StageNotes = "lecture_notes"
)

// Generator drives both generation stages over one gateway and cache.
type Generator struct {
	gw    llm.Gateway
	cache *llm.Cache
	log   *slog.Logger
}

func New(gw llm.Gateway, cache *llm.Cache, log *slog.Logger) *Generator {
	return &Generator{gw: gw, cache: cache, log: log}
}

// PlanRequest parameterizes the lesson-plan stage.
type PlanRequest struct {
	Subject     string
	Difficulty  string
	Temperature float32
	MaxTokens   int
	Progress    func(float64) // fraction of nodes visited, monotonic
}

// NotesRequest parameterizes the lecture-notes stage.
type NotesRequest struct {
	Subject     string
	Difficulty  string
	Highlighted []string
	Reference   string
	Temperature float32
	MaxTokens   int
	Progress    func(float64)
}

type progressCounter struct {
	total   int
	visited int
	report  func(float64)
}

func (p *progressCounter) step() {
	p.visited++
	if p.report == nil {
		return
	}
	if p.total <= 0 {
		p.report(1.0)
		return
	}
	f := float64(p.visited) / float64(p.total)
	if f > 1.0 {
		f = 1.0
	}
	p.report(f)
}

func (p *progressCounter) finish() {
	if p.report != nil {
		p.report(1.0)
	}
}

// LessonPlan populates node content in place for every node of the forest.
// A failed node gets empty content and a recorded failure; siblings and
// descendants are still processed.
func (g *Generator) LessonPlan(ctx context.Context, forest []*topictree.TopicNode, req PlanRequest) []NodeFailure {
	pc := &progressCounter{total: topictree.Count(forest), report: req.Progress}
	var failures []NodeFailure
	g.walkPlan(ctx, forest, nil, 1, req, pc, &failures)
	pc.finish()
	return failures
}

func (g *Generator) walkPlan(ctx context.Context, nodes []*topictree.TopicNode, inherited prompt.Context, depth int, req PlanRequest, pc *progressCounter, failures *[]NodeFailure) {
	for _, node := range nodes {
		p := prompt.LessonChunk(req.Subject, req.Difficulty, node, inherited, depth)
		g.generateInto(ctx, node, p, StagePlan, req.Temperature, req.MaxTokens, failures)
		pc.step()

		// The outgoing context is a copy: siblings never observe each other.
		outgoing := inherited.With(node.ID, node.Label())
		g.walkPlan(ctx, node.Subtopics, outgoing, depth+1, req, pc, failures)
	}
}

// LectureNotes runs stage 2 over a deep clone of the lesson-plan forest, so
// the plan stays intact for by-id context lookup. Each node id is processed
// at most once, guarding against malformed trees where a node is reachable
// through more than one path.
func (g *Generator) LectureNotes(ctx context.Context, plan []*topictree.TopicNode, req NotesRequest) ([]*topictree.TopicNode, []NodeFailure) {
	notes := topictree.Clone(plan)
	pc := &progressCounter{total: topictree.Count(notes), report: req.Progress}
	visited := make(map[string]bool)
	var failures []NodeFailure
	g.walkNotes(ctx, notes, plan, nil, req, pc, visited, &failures)
	pc.finish()
	return notes, failures
}

func (g *Generator) walkNotes(ctx context.Context, nodes, plan []*topictree.TopicNode, inherited prompt.Context, req NotesRequest, pc *progressCounter, visited map[string]bool, failures *[]NodeFailure) {
	for _, node := range nodes {
		if visited[node.ID] {
			g.log.Warn("duplicate node id in tree, skipping subtree", "node_id", node.ID, "stage", StageNotes)
			continue
		}
		visited[node.ID] = true

		planContext := node.Content
		if planNode := topictree.Find(plan, node.ID); planNode != nil {
			planContext = planNode.Content
		}
		p := prompt.LectureNotes(prompt.NotesInput{
			Subject:     req.Subject,
			Difficulty:  req.Difficulty,
			NodeID:      node.ID,
			PlanContext: planContext,
			Highlighted: req.Highlighted,
			Ancestors:   inherited,
			Reference:   req.Reference,
		})
		g.generateInto(ctx, node, p, StageNotes, req.Temperature, req.MaxTokens, failures)
		pc.step()

		outgoing := inherited.With(node.ID, node.Title)
		g.walkNotes(ctx, node.Subtopics, plan, outgoing, req, pc, visited, failures)
	}
}

func (g *Generator) generateInto(ctx context.Context, node *topictree.TopicNode, p, stage string, temperature float32, maxTokens int, failures *[]NodeFailure) {
	text, err := g.cache.GetOrGenerate(p, func() (string, error) {
		return g.gw.Generate(ctx, llm.Request{
			Prompt:      p,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
	})
	if err != nil {
		g.log.Warn("node generation failed", "node_id", node.ID, "stage", stage, "error", err)
		node.Content = ""
		*failures = append(*failures, NodeFailure{NodeID: node.ID, Stage: stage, Cause: err.Error()})
		return
	}
	node.Content = strings.TrimSpace(text)
}
