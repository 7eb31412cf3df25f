package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const defaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>App</title>
</head>
<body>
  <div id="root"></div>
  <div id="app"></div>
</body>
</html>
`

// InjectAssets appends stylesheet links to the head and module scripts to
// the body of page. The parser supplies a head and body when the template
// lacks them.
func InjectAssets(page string, scripts, styles []string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse html template: %w", err)
	}
	head, body := findElement(doc, atom.Head), findElement(doc, atom.Body)
	if head == nil || body == nil {
		return "", fmt.Errorf("html template has no document structure")
	}

	for _, href := range styles {
		head.AppendChild(element(atom.Link, "rel", "stylesheet", "href", href))
	}
	for _, src := range scripts {
		body.AppendChild(element(atom.Script, "type", "module", "src", src))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render html page: %w", err)
	}
	return buf.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// element builds an element from alternating attribute keys and values.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// writePage renders the HTML page of an application build. A missing
// template falls back to a minimal page.
func writePage(template, target string, scripts, styles []string) error {
	page := defaultTemplate
	data, err := os.ReadFile(template)
	switch {
	case err == nil:
		page = string(data)
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read html template: %w", err)
	}

	rendered, err := InjectAssets(page, scripts, styles)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(target, []byte(rendered), 0644)
}
