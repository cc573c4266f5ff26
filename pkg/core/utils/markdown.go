package utils

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"finstatements/pkg/core/edgar"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// TableMarkdown renders a statement as a GitHub-flavoured Markdown table.
// Empty cells render blank.
func TableMarkdown(t *edgar.Table) string {
	var sb strings.Builder
	sb.WriteString("| Item |")
	for _, c := range t.ColumnNames() {
		sb.WriteString(" " + escapeCell(c) + " |")
	}
	sb.WriteString("\n|---|")
	for range t.Columns {
		sb.WriteString("---:|")
	}
	sb.WriteString("\n")

	for _, r := range t.Rows {
		sb.WriteString("| " + escapeCell(r.Label) + " |")
		for _, v := range r.Values {
			sb.WriteString(" " + escapeCell(v.String()) + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ReportMarkdown renders every extracted statement under its own heading,
// followed by a list of the kinds that failed.
func ReportMarkdown(title string, rep *edgar.Report) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	for _, k := range edgar.AllKinds {
		out, ok := rep.Results[k]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n_%s_\n\n", headingFor(k), out.Path)
		sb.WriteString(TableMarkdown(out.Table))
		sb.WriteString("\n")
	}

	if len(rep.Failures) > 0 {
		sb.WriteString("## Not extracted\n\n")
		msgs := rep.FailureMessages()
		names := make([]string, 0, len(msgs))
		for name := range msgs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "- %s: %s\n", name, msgs[name])
		}
	}
	return sb.String()
}

func headingFor(k edgar.StatementKind) string {
	words := strings.Split(k.String(), "_")
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// MarkdownToHTML converts Markdown, tables included, to HTML.
func MarkdownToHTML(md string) (string, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
