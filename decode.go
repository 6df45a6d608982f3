package ordo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type codeBlock struct {
	Lang    string
	Content string
}

func extractCodeBlocks(source []byte) ([]codeBlock, error) {
	var blocks []codeBlock
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block codeBlock
		if fenced.Info != nil {
			block.Lang = string(fenced.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	return blocks, nil
}

// DecodeMapping turns raw mapping input into a Mapping. The payload may
// be a bare JSON object or a markdown response carrying it in a fenced
// code block; the first block that parses wins. The result is untrusted
// either way and goes through full validation.
func DecodeMapping(raw string) (Mapping, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty mapping input")
	}

	if m, err := unmarshalMapping([]byte(trimmed)); err == nil {
		return m, nil
	}

	blocks, err := extractCodeBlocks([]byte(raw))
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		if b.Lang != "" && b.Lang != "json" {
			continue
		}
		if m, err := unmarshalMapping([]byte(strings.TrimSpace(b.Content))); err == nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no file mapping found in input")
}

func unmarshalMapping(data []byte) (Mapping, error) {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("mapping is empty")
	}
	return Mapping(m), nil
}
