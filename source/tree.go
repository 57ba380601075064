package source

import (
	"context"
	"errors"
	"strings"
)

// RootFunc resolves a domain identifier to its root node. ok=false means the
// domain is unknown, which is not an error - the cache just gets an empty
// table for it.
type RootFunc func(ctx context.Context, domain string) (root Node, ok bool, err error)

// TreeSource implements Source over a content-node tree.
type TreeSource struct {
	roots RootFunc
}

func NewTreeSource(roots RootFunc) (*TreeSource, error) {
	if roots == nil {
		return nil, errors.New("source: root resolver is required")
	}
	return &TreeSource{roots: roots}, nil
}

// Load walks the domain's subtree depth-first and flattens its dictionary
// entries. The walk is an explicit stack rather than recursion; content trees
// can be arbitrarily deep. A nested domain node is never entered: its phrases
// belong to its own table, not this one.
func (s *TreeSource) Load(ctx context.Context, domain, language string) ([]Entry, error) {
	root, ok, err := s.roots(ctx, domain)
	if err != nil {
		return nil, err
	}
	if !ok || root == nil {
		return nil, nil
	}

	type frame struct {
		node   Node
		origin bool // the call-origin node descends even when domain-typed
	}
	stack := []frame{{node: root, origin: true}}
	var out []Entry

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		if n == nil {
			continue
		}
		if !f.origin && n.Kind() == KindDomain {
			continue
		}

		if n.Kind() == KindEntry {
			if v, ok := n.Value(language); ok {
				out = append(out, Entry{Key: n.Key(), Value: Normalize(v)})
			} else if v, ok := n.Fallback(); ok {
				out = append(out, Entry{Key: n.Key(), Value: Normalize(v)})
			}
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- { // keep left-to-right order
			stack = append(stack, frame{node: children[i]})
		}
	}
	return out, nil
}

var entityReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">")

// Normalize applies the phrase text rules: Windows line endings and literal
// \n escapes become real newlines, and the angle-bracket entities are
// unescaped.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	return entityReplacer.Replace(s)
}
