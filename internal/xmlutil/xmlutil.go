// Package xmlutil reads XML documents through a namespace-tolerant lens.
// NFCom generators disagree on namespace declarations and tag placement, so
// every lookup here matches on local element names only and degrades to an
// empty result instead of failing.
package xmlutil

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Node is one element of a parsed document.
type Node struct {
	Name     string
	Attr     map[string]string
	Text     string
	Children []*Node
}

// LocalName strips a namespace prefix from a qualified tag name, handling
// both the "{uri}tag" and "ns:tag" forms.
func LocalName(tag string) string {
	if i := strings.LastIndex(tag, "}"); i >= 0 {
		return tag[i+1:]
	}
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// Parse builds a Node tree from r. Legacy invoices are often declared as
// ISO-8859-1, so a charset reader covers the common Latin encodings.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attr = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attr[a.Name.Local] = a.Value
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("decode XML: document has no elements")
	}
	return root, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "utf-8", "":
		return input, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

// TrimmedText returns the node's character data with surrounding whitespace
// removed; nil-safe.
func (n *Node) TrimmedText() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// walk visits n and every descendant in document order until fn returns
// false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// Find locates the first descendant (or self) matching a slash path of
// local names. A single-segment path searches the whole subtree; a longer
// path anchors its first segment anywhere in the subtree and then descends
// through direct children. Returns nil when nothing matches.
func (n *Node) Find(path string) *Node {
	if n == nil {
		return nil
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 {
		return n.findFirst(parts[0])
	}

	var found *Node
	n.walk(func(c *Node) bool {
		if c.Name != parts[0] {
			return true
		}
		if m := descend(c, parts[1:]); m != nil {
			found = m
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant (or self) whose local name matches, in
// document order.
func (n *Node) FindAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	n.walk(func(c *Node) bool {
		if c.Name == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FirstText tries each candidate path in order and returns the first
// non-empty trimmed text. A "@name" path reads an attribute of n itself.
func (n *Node) FirstText(paths ...string) string {
	if n == nil {
		return ""
	}
	for _, p := range paths {
		if name, ok := strings.CutPrefix(p, "@"); ok {
			if v := strings.TrimSpace(n.Attr[strings.TrimSpace(name)]); v != "" {
				return v
			}
			continue
		}
		if v := n.Find(p).TrimmedText(); v != "" {
			return v
		}
	}
	return ""
}

func (n *Node) findFirst(name string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

func descend(n *Node, parts []string) *Node {
	cur := n
	for _, seg := range parts {
		var next *Node
		for _, ch := range cur.Children {
			if ch.Name == seg {
				next = ch
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(strings.Trim(strings.TrimSpace(path), "/"), "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
