package content

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var delimiter = []byte("---")

// FrontMatter is the YAML mapping at the top of a content file.
type FrontMatter struct {
	node *yaml.Node
}

// ParseFrontMatter splits src into its front matter and body. A file
// without a leading "---" line has empty front matter and src as body.
func ParseFrontMatter(src []byte) (FrontMatter, []byte, error) {
	first, rest, found := cutLine(src)
	if !found || !bytes.Equal(bytes.TrimSpace(first), delimiter) {
		return FrontMatter{}, src, nil
	}

	var block []byte
	for {
		line, next, more := cutLine(rest)
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), delimiter) {
			rest = next
			break
		}
		if !more {
			return FrontMatter{}, nil, errors.New("unterminated front matter")
		}
		block = append(block, line...)
		block = append(block, '\n')
		rest = next
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("front matter: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return FrontMatter{}, rest, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return FrontMatter{}, nil, errors.New("front matter must be a mapping")
	}
	return FrontMatter{node: root}, rest, nil
}

// cutLine returns the first line of b (without its newline), the
// remainder, and whether a newline was found.
func cutLine(b []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func (fm FrontMatter) lookup(key string) *yaml.Node {
	if fm.node == nil {
		return nil
	}
	for i := 0; i+1 < len(fm.node.Content); i += 2 {
		if fm.node.Content[i].Value == key {
			v := fm.node.Content[i+1]
			if v.Kind == yaml.AliasNode && v.Alias != nil {
				v = v.Alias
			}
			return v
		}
	}
	return nil
}

// String returns the value at key if it is a string. Timestamps count as
// strings and keep their source text.
func (fm FrontMatter) String(key string) (string, bool) {
	v := fm.lookup(key)
	if v == nil || kindOf(v) != "string" {
		return "", false
	}
	return v.Value, true
}

// kindOf names the schema type of a YAML value.
func kindOf(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "array"
	}
	switch n.ShortTag() {
	case "!!str", "!!timestamp":
		return "string"
	case "!!int", "!!float":
		return "number"
	case "!!bool":
		return "boolean"
	case "!!null":
		return "null"
	}
	return "unknown"
}
