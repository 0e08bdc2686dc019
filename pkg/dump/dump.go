// Package dump writes segmented blocks in machine and human readable forms,
// for debugging status scripts.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/markup"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	FormatTOML Format = "toml"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatXML, FormatTOML}
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrDumpFormat, "unknown format %q", s).
		WithDetail("format", s)
}

// Node is one open annotation.
type Node struct {
	Value     string   `json:"value" yaml:"value" toml:"value"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
}

// Stack is the open annotations of one kind, top first.
type Stack struct {
	Kind  string `json:"kind" yaml:"kind" toml:"kind"`
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
}

// Block is the encodable view of a markup block.
type Block struct {
	Index  int     `json:"index" yaml:"index" toml:"index"`
	Text   string  `json:"text" yaml:"text" toml:"text"`
	Stacks []Stack `json:"stacks,omitempty" yaml:"stacks,omitempty" toml:"stacks,omitempty"`
}

// Document is the top level of every encoding.
type Document struct {
	Input  string  `json:"input" yaml:"input" toml:"input"`
	Blocks []Block `json:"blocks" yaml:"blocks" toml:"blocks"`
}

// FromBlocks copies blocks out of the node pool.
func FromBlocks(input string, blocks []markup.Block) Document {
	doc := Document{Input: input, Blocks: make([]Block, 0, len(blocks))}
	for i := range blocks {
		b := Block{Index: i, Text: blocks[i].Text}
		for _, k := range markup.Kinds() {
			nodes := blocks[i].Annotations.Stack(k)
			if len(nodes) == 0 {
				continue
			}
			s := Stack{Kind: k.String(), Nodes: make([]Node, len(nodes))}
			for j, n := range nodes {
				s.Nodes[j] = Node{Value: n.Value}
				for _, m := range n.Mask.Modifiers() {
					s.Nodes[j].Modifiers = append(s.Nodes[j].Modifiers, m.String())
				}
			}
			b.Stacks = append(b.Stacks, s)
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc
}

// Write encodes doc to w.
func Write(w io.Writer, format Format, doc Document) error {
	var err error
	switch format {
	case FormatText:
		err = writeText(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	case FormatXML:
		_, err = xmlDocument(doc).WriteTo(w)
	default:
		return errors.Newf(errors.ErrDumpFormat, "unknown format %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrDumpFormat, "failed to write %s dump", format)
	}
	return nil
}

func xmlDocument(doc Document) *etree.Document {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := x.CreateElement("blocks")
	root.CreateAttr("count", strconv.Itoa(len(doc.Blocks)))
	root.CreateElement("input").SetText(doc.Input)

	for _, b := range doc.Blocks {
		el := root.CreateElement("block")
		el.CreateAttr("index", strconv.Itoa(b.Index))
		el.CreateElement("text").SetText(b.Text)
		for _, s := range b.Stacks {
			for depth, n := range s.Nodes {
				a := el.CreateElement("annotation")
				a.CreateAttr("kind", s.Kind)
				a.CreateAttr("depth", strconv.Itoa(depth))
				if len(n.Modifiers) > 0 {
					a.CreateAttr("modifiers", strings.Join(n.Modifiers, "|"))
				}
				a.SetText(n.Value)
			}
		}
	}
	x.Indent(2)
	return x
}

func writeText(w io.Writer, doc Document) error {
	data := pterm.TableData{{"#", "Text", "Annotations"}}
	for _, b := range doc.Blocks {
		data = append(data, []string{strconv.Itoa(b.Index), strconv.Quote(b.Text), describe(b.Stacks)})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString(out)
	fmt.Fprintf(&buf, "\n%d block(s)\n", len(doc.Blocks))
	_, err = buf.WriteTo(w)
	return err
}

// describe renders stacks the way they would be written, outermost first.
func describe(stacks []Stack) string {
	var parts []string
	for _, s := range stacks {
		for i := len(s.Nodes) - 1; i >= 0; i-- {
			n := s.Nodes[i]
			tag := s.Kind
			if len(n.Modifiers) > 0 {
				tag += ":" + strings.Join(n.Modifiers, "|")
			}
			parts = append(parts, "<"+tag+"="+n.Value+">")
		}
	}
	return strings.Join(parts, " ")
}
