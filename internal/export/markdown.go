package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/pstuifzand/manuscript/internal/model"
	"github.com/pstuifzand/manuscript/internal/project"
)

// ExportToMarkdown writes a materialized project to a single markdown file.
// Groups become headings nested by depth and chapters become sections with
// their reconciled content.
func ExportToMarkdown(doc *project.Document, filePath string) error {
	content := RenderMarkdown(doc)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// RenderMarkdown renders a materialized project as a markdown document
func RenderMarkdown(doc *project.Document) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(doc.Project.Title)
	sb.WriteString("\n\n")

	if strings.TrimSpace(doc.Project.Description) != "" {
		sb.WriteString(doc.Project.Description)
		sb.WriteString("\n\n")
	}

	content := make(map[string]string, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		content[ch.ID] = ch.Content
	}

	for _, n := range doc.Project.Chapters {
		writeNodeAsMarkdown(&sb, n, 2, content)
	}

	return sb.String()
}

// writeNodeAsMarkdown recursively writes a node and its children. depth is
// the markdown heading level, capped at six.
func writeNodeAsMarkdown(sb *strings.Builder, n *model.Node, depth int, content map[string]string) {
	if n == nil {
		return
	}
	if depth > 6 {
		depth = 6
	}

	sb.WriteString(strings.Repeat("#", depth))
	sb.WriteString(" ")
	sb.WriteString(n.Title)
	sb.WriteString("\n\n")

	if n.IsChapter() {
		if text := strings.TrimRight(content[n.ID], "\n"); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}

	for _, child := range n.Children {
		writeNodeAsMarkdown(sb, child, depth+1, content)
	}
}
