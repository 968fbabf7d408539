package rstfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Dump writes an indented listing of the tree rooted at n, one node
// per line, for debugging. Kind names are colored; text nodes show a
// truncated quote of their content and other nodes their non-empty
// attributes.
func Dump(w io.Writer, n *Node) {
	dumpNode(w, n, 0)
}

func dumpNode(w io.Writer, n *Node, depth int) {
	indent := strings.Repeat("    ", depth)
	fmt.Fprintf(w, "%s- \x1b[34m%s\x1b[m %s\n", indent, n.Kind, dumpDetail(n))
	for _, c := range n.Children {
		dumpNode(w, c, depth+1)
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func dumpDetail(n *Node) string {
	if n.Kind == Text || n.Kind == Role {
		return fmt.Sprintf("%q", truncate(n.Text, 100))
	}
	var parts []string
	add := func(key, val string) {
		parts = append(parts, key+"="+val)
	}
	if n.Attrs.RefURI != "" {
		add("refuri", n.Attrs.RefURI)
	}
	if n.Attrs.Anonymous {
		add("anonymous", "true")
	}
	if len(n.Attrs.Names) > 0 {
		add("names", strings.Join(n.Attrs.Names, ","))
	}
	if len(n.Attrs.Classes) > 0 {
		add("classes", strings.Join(n.Attrs.Classes, ","))
	}
	if n.Attrs.Colwidth > 0 {
		add("colwidth", fmt.Sprint(n.Attrs.Colwidth))
	}
	if n.Attrs.URI != "" {
		add("uri", n.Attrs.URI)
	}
	if d := n.Attrs.Directive; d != nil {
		add("directive", d.Name)
	}
	if n.Attrs.Target != nil {
		add("target", "resolved")
	}
	return "{" + strings.Join(parts, " ") + "}"
}
