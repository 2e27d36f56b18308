package render

import "strings"

// Markdown replays src (the markdown subset the generator is asked for:
// #..#### headings, "- "/"* " bullets with 2-space indent nesting, bold,
// italic, inline code, fenced code blocks) as sink calls. The conversion is
// line-oriented and never fails: anything unrecognized is emitted as literal
// paragraph text. headingOffset is added to in-content heading levels so a
// node's own sections nest below the node heading.
func Markdown(sink DocumentSink, src string, headingOffset int) {
	inCode := false
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			// Code lines pass through without markdown interpretation.
			sink.AddParagraph([]Span{{Text: strings.TrimRight(line, " \t"), Code: true}}, StyleCode)
			continue
		}
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			level := headingLevel(trimmed)
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if text == "" {
				continue
			}
			level += headingOffset
			if level < 1 {
				level = 1
			}
			sink.AddHeading(text, level)

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			indent := listIndent(line)
			sink.AddListItem(InlineSpans(strings.TrimSpace(trimmed[2:])), indent)

		case strings.HasPrefix(trimmed, "> "):
			sink.AddParagraph(InlineSpans(strings.TrimSpace(trimmed[2:])), StyleQuote)

		default:
			sink.AddParagraph(InlineSpans(trimmed), StyleNormal)
		}
	}
}

func headingLevel(trimmed string) int {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level > 6 {
		level = 6
	}
	return level
}

// listIndent maps leading whitespace to a nesting level: two spaces (or one
// tab) per level.
func listIndent(line string) int {
	spaces := 0
	for _, r := range line {
		if r == ' ' {
			spaces++
		} else if r == '\t' {
			spaces += 2
		} else {
			break
		}
	}
	return spaces / 2
}

// InlineSpans tokenizes one line into emphasis-tagged spans. Delimiters
// without a closing partner are emitted literally, so malformed markup
// degrades to plain text instead of failing.
func InlineSpans(s string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "**"):
			if j := strings.Index(s[i+2:], "**"); j >= 0 {
				flush()
				if j > 0 {
					spans = append(spans, Span{Text: s[i+2 : i+2+j], Bold: true})
				}
				i += j + 4
				continue
			}
			plain.WriteString("**")
			i += 2

		case s[i] == '*':
			if j := strings.IndexByte(s[i+1:], '*'); j >= 0 {
				flush()
				spans = append(spans, Span{Text: s[i+1 : i+1+j], Italic: true})
				i += j + 2
				continue
			}
			plain.WriteByte('*')
			i++

		case s[i] == '`':
			if j := strings.IndexByte(s[i+1:], '`'); j >= 0 {
				flush()
				spans = append(spans, Span{Text: s[i+1 : i+1+j], Code: true})
				i += j + 2
				continue
			}
			plain.WriteByte('`')
			i++

		default:
			plain.WriteByte(s[i])
			i++
		}
	}
	flush()
	return spans
}
