// Package golden extracts compiler test cases from Markdown documents.
//
// A case starts at a heading of the form "Test: name" and collects the
// fenced code blocks that follow it:
//
//	c       source program (required)
//	wat     expected text module
//	result  one call per line, "args -> value" or "-> value"
//	error   substring the compile error must contain
package golden

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence is the info string of a recognized code block.
type Fence string

const (
	FenceSource Fence = "c"
	FenceText   Fence = "wat"
	FenceResult Fence = "result"
	FenceError  Fence = "error"
)

// Call is one expected invocation of the exported main function.
type Call struct {
	Args []int32
	Want int32
}

// Case is a single golden test case.
type Case struct {
	Name   string
	Source string
	Text   string
	Error  string
	Calls  []Call
	Line   int
}

// Parse extracts every case from a Markdown document.
func Parse(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var cur *Case

	flush := func() error {
		if cur == nil {
			return nil
		}
		if err := cur.validate(); err != nil {
			return err
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimSpace(name), Line: lineOf(n, markdown)}

		case *ast.FencedCodeBlock:
			lang := Fence(n.Language(markdown))
			line := lineOf(n, markdown)
			if cur == nil {
				if lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %q fence outside of a test case", line, lang)
				}
				return ast.WalkContinue, nil
			}
			if err := cur.add(lang, blockContent(n, markdown), line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

// Load reads and parses one Markdown file.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// LoadDir parses every *.md file in dir, keyed by file name.
func LoadDir(dir string) (map[string][]Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Case, len(paths))
	for _, p := range paths {
		cases, err := Load(p)
		if err != nil {
			return nil, err
		}
		out[filepath.Base(p)] = cases
	}
	return out, nil
}

func (c *Case) add(lang Fence, content string, line int) error {
	switch lang {
	case FenceSource:
		if c.Source != "" {
			return fmt.Errorf("line %d: test %q has more than one source fence", line, c.Name)
		}
		c.Source = content
	case FenceText:
		c.Text = content
	case FenceError:
		c.Error = strings.TrimSpace(content)
	case FenceResult:
		calls, err := parseCalls(content)
		if err != nil {
			return fmt.Errorf("line %d: test %q: %w", line, c.Name, err)
		}
		c.Calls = append(c.Calls, calls...)
	case "":
	default:
		return fmt.Errorf("line %d: unknown fence %q in test %q", line, lang, c.Name)
	}
	return nil
}

func (c *Case) validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("test %q has no source fence", c.Name)
	}
	if c.Error != "" && (c.Text != "" || len(c.Calls) > 0) {
		return fmt.Errorf("test %q expects an error and an output", c.Name)
	}
	if c.Error == "" && c.Text == "" && len(c.Calls) == 0 {
		return fmt.Errorf("test %q has no assertion fences", c.Name)
	}
	return nil
}

func parseCalls(content string) ([]Call, error) {
	var calls []Call
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lhs, rhs, ok := strings.Cut(line, "->")
		if !ok {
			return nil, fmt.Errorf("result line %q: missing \"->\"", line)
		}
		want, err := parseI32(strings.TrimSpace(rhs))
		if err != nil {
			return nil, fmt.Errorf("result line %q: %w", line, err)
		}
		call := Call{Want: want}
		for _, f := range strings.Fields(strings.ReplaceAll(lhs, ",", " ")) {
			v, err := parseI32(f)
			if err != nil {
				return nil, fmt.Errorf("result line %q: %w", line, err)
			}
			call.Args = append(call.Args, v)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func parseI32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf reports the 1-based line a block node starts on.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := min(node.Lines().At(0).Start, len(source))
	return 1 + bytes.Count(source[:start], []byte{'\n'})
}
