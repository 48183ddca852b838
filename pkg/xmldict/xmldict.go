// Package xmldict converts the upstream XML documents into entity records.
//
// Attributes become string fields, child elements become nested records keyed
// by their tag, and an element with neither attributes nor children becomes
// its text. When several siblings share a tag they are collapsed into one
// record keyed by an identifying attribute.
package xmldict

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PieInTheSky-Inc/yadc/pkg/entity"
)

// Parser converts XML into records.
type Parser struct {
	// IDAttributes lists, per element tag, the attributes that identify
	// repeated siblings of that tag, in order of preference. Without an entry
	// the attribute "<Tag>Id" is tried, then the sibling position.
	IDAttributes map[string][]string
}

type node struct {
	tag      string
	attrs    []xml.Attr
	children []*node
	text     strings.Builder
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parseTree(raw string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	var root *node
	var stack []*node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{tag: t.Name.Local, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("decoding xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("decoding xml: no root element")
	}
	return root, nil
}

// Parse converts the whole document. The result has a single key, the root
// element's tag.
func (p Parser) Parse(raw string) (entity.Record, error) {
	root, err := parseTree(raw)
	if err != nil {
		return nil, err
	}
	return entity.Record{root.tag: p.convert(root)}, nil
}

// Entities collects every element carrying idField, at any depth, keyed by
// that attribute. The first element wins when an id repeats.
func (p Parser) Entities(raw, idField string) (entity.Table, error) {
	root, err := parseTree(raw)
	if err != nil {
		return nil, err
	}
	table := entity.Table{}
	p.collect(root, idField, table)
	return table, nil
}

func (p Parser) collect(n *node, idField string, table entity.Table) {
	if id, ok := n.attr(idField); ok && id != "" {
		if _, exists := table[id]; !exists {
			if rec, ok := p.convert(n).(entity.Record); ok {
				table[id] = rec
			}
		}
	}
	for _, child := range n.children {
		p.collect(child, idField, table)
	}
}

func (p Parser) convert(n *node) any {
	if len(n.attrs) == 0 && len(n.children) == 0 {
		return strings.TrimSpace(n.text.String())
	}

	rec := make(entity.Record, len(n.attrs)+len(n.children))
	for _, a := range n.attrs {
		rec[a.Name.Local] = a.Value
	}

	groups := make(map[string][]*node)
	var order []string
	for _, child := range n.children {
		if _, ok := groups[child.tag]; !ok {
			order = append(order, child.tag)
		}
		groups[child.tag] = append(groups[child.tag], child)
	}

	for _, tag := range order {
		siblings := groups[tag]
		if len(siblings) == 1 {
			rec[tag] = p.convert(siblings[0])
			continue
		}
		collapsed := make(entity.Record, len(siblings))
		for i, sibling := range siblings {
			key := p.siblingKey(sibling, i)
			if _, exists := collapsed[key]; exists {
				key = strconv.Itoa(i)
			}
			collapsed[key] = p.convert(sibling)
		}
		rec[tag] = collapsed
	}
	return rec
}

func (p Parser) siblingKey(n *node, position int) string {
	candidates := p.IDAttributes[n.tag]
	if len(candidates) == 0 {
		candidates = []string{n.tag + "Id"}
	}
	for _, name := range candidates {
		if v, ok := n.attr(name); ok && v != "" {
			return v
		}
	}
	return strconv.Itoa(position)
}

// RawElement returns the unmodified XML of the first element whose idField
// attribute equals id.
func RawElement(raw, idField, id string) (string, bool, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	start := int64(-1)
	depth := 0
	targetDepth := 0
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("decoding xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if start >= 0 {
				continue
			}
			for _, a := range t.Attr {
				if a.Name.Local == idField && a.Value == id {
					start = offset
					targetDepth = depth
					break
				}
			}
		case xml.EndElement:
			if start >= 0 && depth == targetDepth {
				return raw[start:dec.InputOffset()], true, nil
			}
			depth--
		}
	}
}
