package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/broom/internal/model"
)

// header is the YAML frontmatter of a markdown checklist. The title, rooms
// and tasks live in the markdown body.
type header struct {
	ID         string            `yaml:"id,omitempty"`
	Client     model.Client      `yaml:"client"`
	Property   model.Property    `yaml:"property,omitempty"`
	Status     model.Status      `yaml:"status,omitempty"`
	TemplateID string            `yaml:"template_id,omitempty"`
	Notes      string            `yaml:"notes,omitempty"`
	Categories map[string]string `yaml:"categories,omitempty"`
	CreatedAt  *time.Time        `yaml:"created_at,omitempty"`
}

// WriteMarkdown renders c as a printable markdown checklist:
//
//	---
//	client: ...
//	---
//	# Name
//
//	## Room
//
//	- [x] Task _(notes)_
func WriteMarkdown(w io.Writer, c *model.Checklist) error {
	h := header{
		ID:         c.ID,
		Client:     c.Client,
		Property:   c.Property,
		Status:     c.Status,
		TemplateID: c.TemplateID,
		Notes:      c.Notes,
	}
	if !c.CreatedAt.IsZero() {
		created := c.CreatedAt
		h.CreatedAt = &created
	}
	for _, r := range c.Rooms {
		if r.Category != "" {
			if h.Categories == nil {
				h.Categories = make(map[string]string)
			}
			h.Categories[r.Name] = r.Category
		}
	}

	fm, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "---\n%s---\n\n# %s\n\n", fm, c.Name)
	fmt.Fprintf(bw, "Progress: %s\n", c.Progress())
	for _, r := range c.Rooms {
		fmt.Fprintf(bw, "\n## %s\n\n", r.Name)
		for _, t := range r.Tasks {
			box := " "
			if t.Done {
				box = "x"
			}
			fmt.Fprintf(bw, "- [%s] %s", box, t.Name)
			if t.Notes != "" {
				fmt.Fprintf(bw, " _(%s)_", t.Notes)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.TaskList))

// ParseMarkdown reads a markdown checklist. Frontmatter is optional; the
// first level-1 heading is the name, each level-2 heading starts a room and
// list items under it are tasks. "- [x]" marks a task done.
func ParseMarkdown(data []byte) (*model.Checklist, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var h header
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &h); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
		}
	}

	c := &model.Checklist{
		ID:         h.ID,
		Client:     h.Client,
		Property:   h.Property,
		Status:     h.Status,
		TemplateID: h.TemplateID,
		Notes:      h.Notes,
	}
	if h.CreatedAt != nil {
		c.CreatedAt = *h.CreatedAt
	}

	doc := markdown.Parser().Parse(text.NewReader(body))
	var room *model.Room
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(inlineText(n, body))
			switch {
			case n.Level == 1 && c.Name == "":
				c.Name = title
			case n.Level == 2 && title != "":
				c.Rooms = append(c.Rooms, model.Room{Name: title, Category: h.Categories[title]})
				room = &c.Rooms[len(c.Rooms)-1]
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			if room == nil {
				return ast.WalkSkipChildren, nil
			}
			if task, ok := parseTask(n, body); ok {
				room.Tasks = append(room.Tasks, task)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// parseTask reads the first block of a list item. A trailing emphasis
// wrapped in parentheses holds the task notes.
func parseTask(item *ast.ListItem, src []byte) (model.Task, bool) {
	block := item.FirstChild()
	if block == nil {
		return model.Task{}, false
	}

	var task model.Task
	var name strings.Builder
	for n := block.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *extast.TaskCheckBox:
			task.Done = n.IsChecked
		case *ast.Emphasis:
			inner := strings.TrimSpace(inlineText(n, src))
			if n.NextSibling() == nil && strings.HasPrefix(inner, "(") && strings.HasSuffix(inner, ")") {
				task.Notes = strings.TrimSpace(inner[1 : len(inner)-1])
				continue
			}
			name.WriteString(inner)
		default:
			name.WriteString(inlineText(n, src))
		}
	}
	task.Name = strings.Join(strings.Fields(name.String()), " ")
	return task, task.Name != ""
}

// inlineText concatenates the text under n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
			return
		case *ast.String:
			b.Write(t.Value)
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// splitFrontmatter separates a leading "---" YAML block from the body.
func splitFrontmatter(data []byte) (fm, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	lines := bytes.SplitAfter(data, []byte("\n"))
	if len(lines) == 0 || string(bytes.TrimSpace(lines[0])) != "---" {
		return nil, data, nil
	}
	offset := len(lines[0])
	for _, line := range lines[1:] {
		if string(bytes.TrimSpace(line)) == "---" {
			return data[len(lines[0]):offset], data[offset+len(line):], nil
		}
		offset += len(line)
	}
	return nil, nil, fmt.Errorf("frontmatter is not closed")
}
