// Package importer turns a single markdown manuscript back into a project
// tree, the inverse of the export package. Headings become groups and
// chapters, body text becomes chapter content.
package importer

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/manuscript/internal/model"
)

// Result holds a parsed manuscript before it is persisted as a project
type Result struct {
	Title       string
	Description string
	Chapters    []*model.Node
	// Content maps chapter node IDs to their imported body text
	Content map[string]string
}

// section is an intermediate parse node. Whether it becomes a group or a
// chapter depends on whether sub-headings follow it.
type section struct {
	title    string
	body     []string
	children []*section
}

// FromMarkdown parses markdown content into a project tree. The first
// level-one heading becomes the project title and its leading body text the
// description. Deeper headings nest by level; headings without sub-headings
// become chapters carrying their body text.
func FromMarkdown(content string) (*Result, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	root := &section{}
	stack := []*section{root}

	for scanner.Scan() {
		line := scanner.Text()

		level, text := parseHeading(line)
		if level < 0 {
			cur := stack[len(stack)-1]
			cur.body = append(cur.body, line)
			continue
		}

		// The first level-one heading names the project itself
		if level == 1 && root.title == "" && len(root.children) == 0 {
			root.title = text
			stack = []*section{root}
			continue
		}

		// Clamp so a heading deeper than its parent plus one still nests
		depth := level
		if root.title != "" {
			depth--
		}
		if depth < 1 {
			depth = 1
		}
		if depth > len(stack) {
			depth = len(stack)
		}

		sec := &section{title: text}
		parent := stack[depth-1]
		parent.children = append(parent.children, sec)
		stack = append(stack[:depth], sec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Title:       root.title,
		Description: joinBody(root.body),
		Content:     map[string]string{},
	}
	for _, sec := range root.children {
		result.Chapters = append(result.Chapters, buildNode(sec, result.Content))
	}
	return result, nil
}

// buildNode converts a section into a chapter or group node. A group whose
// heading had body text of its own gets that text as a leading chapter so
// nothing from the source file is dropped.
func buildNode(sec *section, content map[string]string) *model.Node {
	if len(sec.children) == 0 {
		n := model.NewNode(sec.title, model.KindChapter, "")
		content[n.ID] = joinBody(sec.body)
		return n
	}

	group := model.NewNode(sec.title, model.KindGroup, "")
	if body := joinBody(sec.body); body != "" {
		lead := model.NewNode(sec.title, model.KindChapter, "")
		content[lead.ID] = body
		group.Children = append(group.Children, lead)
	}
	for _, child := range sec.children {
		group.Children = append(group.Children, buildNode(child, content))
	}
	return group
}

// parseHeading returns the heading level and text, or -1 for non-headings
func parseHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(line) || line[level] != ' ' {
		return -1, ""
	}
	return level, strings.TrimSpace(line[level:])
}

func joinBody(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
