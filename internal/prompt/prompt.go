// Package prompt builds the stage-specific prompts. Builders are pure
// functions of their inputs; they never call the gateway.
package prompt

import (
	"fmt"
	"strings"

	"github.com/nmehta/coursegen/internal/topictree"
)

// Stage-default sampling temperatures. Callers may override.
const (
	DefaultRoadmapTemperature float32 = 0.7
	DefaultLessonTemperature  float32 = 0.7
	DefaultNotesTemperature   float32 = 0.8
)

// Context is the ancestor id -> title mapping passed down the tree walk,
// ordered root-first. It is immutable per subtree path: With returns a copy,
// so sibling subtrees never see each other's entries.
type Context []ContextEntry

type ContextEntry struct {
	ID    string
	Title string
}

// With returns a new context extended by one entry. The receiver is never
// mutated.
func (c Context) With(id, title string) Context {
	out := make(Context, len(c), len(c)+1)
	copy(out, c)
	return append(out, ContextEntry{ID: id, Title: title})
}

// Contains reports whether an ancestor id is present.
func (c Context) Contains(id string) bool {
	for _, e := range c {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (c Context) render(sb *strings.Builder) {
	if len(c) == 0 {
		return
	}
	sb.WriteString("**Context from Parent Topics:**\n")
	for _, e := range c {
		fmt.Fprintf(sb, "  - **%s:** %s\n", e.ID, e.Title)
	}
	sb.WriteString("\n")
}

// Roadmap instructs the model to emit a strict hierarchical outline in the
// grammar internal/outline parses. The format rules are grammar-exact because
// the output is machine-parsed, not read by a human.
func Roadmap(subject, syllabusText, difficulty string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert educator tasked with creating a detailed roadmap for the subject: %q.\n\n", subject)
	fmt.Fprintf(&sb, "**Syllabus:** %s\n", syllabusText)
	fmt.Fprintf(&sb, "Target Audience: %s level students\n\n", difficulty)
	sb.WriteString(`Your task is to generate a comprehensive roadmap that outlines the entire syllabus, divided into main topics, subtopics, and further sub-divisions if necessary. The output MUST STRICTLY ADHERE to the following hierarchical format and output nothing else:

   T<number>: Main Topic Description (e.g., ` + "`T1: Introduction to Programming`" + `)
       T<number>.<number>: Subtopic Description (e.g., ` + "`T1.1: Basic Data Types`" + `)
           T<number>.<number>.<number>: Sub-subtopic Description (e.g., ` + "`T1.1.1: Integers and Floats`" + `)
               T<number>.<number>.<number>.<number>: Further sub-division Description (if needed)

**Rules:**

1. **Hierarchical Format:** Use the exact hierarchical format specified above with "T" followed by numbers and dots.
2. **Topic and Subtopic Descriptions:** Each topic and subtopic MUST be followed by a colon and a brief description on the SAME LINE.
3. **NO Extra Text:** Do not include any introductory text, explanations, prose, or additional formatting beyond what is shown in the example structure.
4. **NO Asterisks:** Do not use any asterisk characters in the output.
5. **STRICT ADHERENCE:** Any deviation from this format makes the roadmap unusable.

**Consider the principles of chunking and scaffolding when organizing the outline. Suggest a logical sequence for the topics (Linear, Spiral, or Modular) in a separate line at the beginning, using the format:** ` + "`Sequence: <Sequence Type>`" + ` (e.g., ` + "`Sequence: Linear`" + `).
`)
	return sb.String()
}

// LessonChunk builds the prompt for one node of the lesson-plan stage.
// The depth band (not the raw depth) controls the focus instruction.
func LessonChunk(subject, difficulty string, node *topictree.TopicNode, ancestors Context, depth int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert educator creating a detailed lesson plan for the subject: %q.\n\n", subject)
	fmt.Fprintf(&sb, "**Target Audience:** %s level students\n", difficulty)
	fmt.Fprintf(&sb, "**Overall Objective:** To provide a comprehensive and engaging learning experience that builds a strong foundation in %s, ensuring students grasp both the theoretical underpinnings and practical applications of each concept.\n\n", subject)

	ancestors.render(&sb)

	fmt.Fprintf(&sb, "**Current Chunk:** %s: %s\n\n", node.ID, node.Label())
	sb.WriteString("**Your Task:**\nGenerate detailed content for this specific chunk of the lesson plan. This is part of a larger, cohesive plan, so maintain consistency in style, tone, and depth.\n\n")

	switch {
	case depth <= 1:
		sb.WriteString("**Focus:** Provide a comprehensive overview, establishing the foundational concepts and clearly outlining the subtopics. Lay the groundwork for deeper exploration in subsequent chunks.\n")
	case depth == 2:
		sb.WriteString("**Focus:** Elaborate on the key concepts introduced earlier. Provide detailed explanations, incorporating examples and analogies to enhance understanding. Ensure a smooth transition from foundational concepts to more complex ideas.\n")
	default:
		sb.WriteString("**Focus:** Dive deep into the intricacies of each subtopic. Provide in-depth explanations, real-world applications, and challenging scenarios. Encourage critical thinking and problem-solving skills.\n")
	}

	sb.WriteString(`
**Format and Content Requirements:**

1. **Micro-Level Learning Objectives (3-5):**
   - Define SMART (Specific, Measurable, Achievable, Relevant, Time-bound) objectives for this chunk.
   - Begin each objective with an action verb (e.g., Define, Explain, Analyze, Design, Implement).
   - Ensure alignment with the overall objective of the lesson plan.
2. **Concept Coverage:**
   - Explain the "why" behind these concepts, their importance and relevance.
   - Use analogies, metaphors, or real-world examples to enhance understanding.
   - Address potential misconceptions proactively; anticipate common misunderstandings and clarify them before they take root.
   - If a concept is particularly complex, suggest a simplified "Explain Like I'm 5" section for the lecture notes.

**Guiding Principles:**
- **Clarity and Precision:** Use clear, concise language.
- **Continuity:** Ensure a smooth flow from previous chunks; do not repeat detailed explanations.
- **Markdown Formatting:** Use markdown for formatting (headings, lists, bold, italics). No raw asterisk bullet lists and no unnecessary asterisks.
`)
	return sb.String()
}

// NotesInput bundles the inputs of the lecture-notes builder.
type NotesInput struct {
	Subject     string
	Difficulty  string
	NodeID      string
	PlanContext string // the node's lesson-plan content, looked up by id
	Highlighted []string
	Ancestors   Context
	Reference   string // optional supplementary source material excerpt
}

// LectureNotes builds the prompt for one node of the lecture-notes stage.
func LectureNotes(in NotesInput) string {
	var sb strings.Builder
	sb.WriteString("You are an expert educator creating comprehensive lecture notes for the following topic:\n\n")
	fmt.Fprintf(&sb, "**Topic ID:** %s\n", in.NodeID)
	fmt.Fprintf(&sb, "**Subject:** %s\n", in.Subject)
	fmt.Fprintf(&sb, "**Target Audience:** %s level students\n", in.Difficulty)
	fmt.Fprintf(&sb, "**Overall Objective:** To deliver a deep and engaging learning experience that equips students with a thorough understanding of %s, emphasizing both the theoretical foundations and practical applications of each concept.\n\n", in.Subject)

	sb.WriteString(`**Contextual Reminders:**
- These lecture notes build upon the previously generated lesson plan.
- Ensure continuity and a logical flow, building upon knowledge established in previous sections.
- Avoid repetition. Briefly reference prior concepts if needed, but focus on new material.

`)
	in.Ancestors.render(&sb)

	fmt.Fprintf(&sb, "**Lesson Plan Context (Reference):**\n%s\n\n", in.PlanContext)
	if len(in.Highlighted) > 0 {
		fmt.Fprintf(&sb, "**Highlighted Topics (for numericals/examples):**\n%s\n\n", strings.Join(in.Highlighted, ", "))
	}
	if in.Reference != "" {
		fmt.Fprintf(&sb, "**Supplementary Source Material (excerpt):**\n%s\n\n", in.Reference)
	}

	sb.WriteString(`**Your Task:**
Generate detailed lecture notes for this topic based on the provided lesson plan context.

**Incorporate the following content requirements:**

- Use clear, concise language appropriate for the target audience. Define all technical terms.
- **Illustrative Examples:** Incorporate numerous examples (conceptual, real-world, numerical for difficult topics).
- **Analogies and Metaphors:** Explain complex concepts in simpler terms through analogies.
- **Addressing Misconceptions:** Proactively address potential misconceptions identified in the lesson plan.
- **Emphasis on Highlighted Topics:** Provide extra examples and practice problems in the highlighted areas.
- **ELI5:** For particularly complex concepts, include a simplified explanation suitable for someone with no prior knowledge.
- **Markdown Formatting:** Use markdown for formatting (headings, lists, bold, italics, code blocks). No unnecessary asterisks.

**Guiding Principles:**
- **Student-Centric:** Focus on student understanding and engagement.
- **Comprehensive:** Cover all aspects of the topic in detail.
- **Continuity:** Maintain a strong connection with the lesson plan and previous topics.
`)
	return sb.String()
}
