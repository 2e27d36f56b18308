package render

import (
	"testing"

	"github.com/nmehta/coursegen/internal/topictree"
)

type sinkCall struct {
	kind   string // "heading", "paragraph", "list"
	text   string
	level  int
	indent int
	style  Style
	spans  []Span
}

type recordingSink struct {
	calls []sinkCall
}

func (r *recordingSink) AddHeading(text string, level int) {
	r.calls = append(r.calls, sinkCall{kind: "heading", text: text, level: level})
}

func (r *recordingSink) AddParagraph(spans []Span, style Style) {
	r.calls = append(r.calls, sinkCall{kind: "paragraph", text: PlainText(spans), style: style, spans: spans})
}

func (r *recordingSink) AddListItem(spans []Span, indent int) {
	r.calls = append(r.calls, sinkCall{kind: "list", text: PlainText(spans), indent: indent, spans: spans})
}

func TestMarkdownDeterministicRendering(t *testing.T) {
	sink := &recordingSink{}
	Markdown(sink, "# A\n- one\n- two\n**bold** text", 0)

	if len(sink.calls) != 4 {
		t.Fatalf("expected 4 sink calls, got %+v", sink.calls)
	}
	if sink.calls[0].kind != "heading" || sink.calls[0].text != "A" {
		t.Errorf("call 0: %+v", sink.calls[0])
	}
	if sink.calls[1].kind != "list" || sink.calls[1].text != "one" {
		t.Errorf("call 1: %+v", sink.calls[1])
	}
	if sink.calls[2].kind != "list" || sink.calls[2].text != "two" {
		t.Errorf("call 2: %+v", sink.calls[2])
	}

	para := sink.calls[3]
	if para.kind != "paragraph" {
		t.Fatalf("call 3: %+v", para)
	}
	if len(para.spans) != 2 {
		t.Fatalf("expected 2 spans, got %+v", para.spans)
	}
	if para.spans[0].Text != "bold" || !para.spans[0].Bold {
		t.Errorf("span 0 should be emphasized 'bold': %+v", para.spans[0])
	}
	if para.spans[1].Text != " text" || para.spans[1].Bold {
		t.Errorf("span 1 should be plain ' text': %+v", para.spans[1])
	}
}

func TestMarkdownLoneAsteriskIsLiteral(t *testing.T) {
	sink := &recordingSink{}
	Markdown(sink, "a lone * survives", 0)

	if len(sink.calls) != 1 || sink.calls[0].kind != "paragraph" {
		t.Fatalf("calls: %+v", sink.calls)
	}
	if sink.calls[0].text != "a lone * survives" {
		t.Errorf("literal text mangled: %q", sink.calls[0].text)
	}
	for _, sp := range sink.calls[0].spans {
		if sp.Bold || sp.Italic {
			t.Errorf("unmatched delimiter produced emphasis: %+v", sp)
		}
	}
}

func TestMarkdownNestedListIndent(t *testing.T) {
	sink := &recordingSink{}
	Markdown(sink, "- top\n  - nested\n- back", 0)

	var items []sinkCall
	for _, c := range sink.calls {
		if c.kind == "list" {
			items = append(items, c)
		}
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 list items, got %+v", items)
	}
	if items[0].indent != 0 || items[0].text != "top" {
		t.Errorf("item 0: %+v", items[0])
	}
	if items[1].indent != 1 || items[1].text != "nested" {
		t.Errorf("item 1: %+v", items[1])
	}
	if items[2].indent != 0 || items[2].text != "back" {
		t.Errorf("item 2: %+v", items[2])
	}
}

func TestMarkdownFencedCode(t *testing.T) {
	sink := &recordingSink{}
	Markdown(sink, "```\nx := 1\n**not bold**\n```", 0)

	if len(sink.calls) != 2 {
		t.Fatalf("expected 2 code lines, got %+v", sink.calls)
	}
	for _, c := range sink.calls {
		if c.style != StyleCode {
			t.Errorf("code line lost monospace style: %+v", c)
		}
	}
	// Code lines are not further markdown-interpreted.
	if sink.calls[1].text != "**not bold**" {
		t.Errorf("code content reinterpreted: %q", sink.calls[1].text)
	}
}

func TestMarkdownHeadingOffset(t *testing.T) {
	sink := &recordingSink{}
	Markdown(sink, "## Section", 2)
	if len(sink.calls) != 1 || sink.calls[0].level != 4 {
		t.Fatalf("expected heading at level 4, got %+v", sink.calls)
	}
}

func TestMarkdownItalicAndCodeSpans(t *testing.T) {
	sink := &recordingSink{}
	Markdown(sink, "*it* and `mono`", 0)

	spans := sink.calls[0].spans
	if len(spans) != 3 {
		t.Fatalf("spans: %+v", spans)
	}
	if spans[0].Text != "it" || !spans[0].Italic {
		t.Errorf("span 0: %+v", spans[0])
	}
	if spans[1].Text != " and " || spans[1].Italic {
		t.Errorf("span 1: %+v", spans[1])
	}
	if spans[2].Text != "mono" || !spans[2].Code {
		t.Errorf("span 2: %+v", spans[2])
	}
}

func TestTreeRendersDocumentOrder(t *testing.T) {
	forest := []*topictree.TopicNode{
		{
			ID: "T1", Title: "Root", Content: "# Inside\nbody",
			Subtopics: []*topictree.TopicNode{
				{ID: "T1.1", Title: "Child", Content: "leaf text"},
			},
		},
		{ID: "T2", Title: "Next"},
	}

	sink := &recordingSink{}
	Tree(sink, forest, 0)

	want := []struct {
		kind  string
		text  string
		level int
	}{
		{"heading", "T1: Root", 1},
		{"heading", "Inside", 2}, // content h1 nests below the node heading
		{"paragraph", "body", 0},
		{"heading", "T1.1: Child", 2},
		{"paragraph", "leaf text", 0},
		{"heading", "T2: Next", 1},
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("got %d calls: %+v", len(sink.calls), sink.calls)
	}
	for i, w := range want {
		c := sink.calls[i]
		if c.kind != w.kind || c.text != w.text {
			t.Errorf("call %d: got %+v, want %+v", i, c, w)
		}
		if w.kind == "heading" && c.level != w.level {
			t.Errorf("call %d level: got %d, want %d", i, c.level, w.level)
		}
	}
}
