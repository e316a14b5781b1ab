package generator

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultPostTemplate renders a article page when no theme templates are
// configured. Kept intentionally minimal; real sites ship their own layouts.
const defaultPostTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Post.Title}} | {{.Site.Title}}</title>
</head>
<body>
<article>
<h1>{{.Post.Title}}</h1>
<p>{{.ReadingTime}}</p>
{{.HTML}}
</article>
</body>
</html>
`

// HTMLRenderer implements interfaces.TemplateRenderer over html/template
// files loaded from a layout directory. Template names are file names minus
// the extension.
type HTMLRenderer struct {
	templates *template.Template
	names     []string
}

// NewHTMLRenderer parses every *.html template under dir. A missing or empty
// directory yields a renderer with only the built-in "post" layout.
func NewHTMLRenderer(dir string) (*HTMLRenderer, error) {
	root := template.New("layouts")
	names := []string{}

	if strings.TrimSpace(dir) != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			parsed, err := parseTemplateDir(root, os.DirFS(dir))
			if err != nil {
				return nil, err
			}
			names = parsed
		}
	}

	if !containsName(names, "post") {
		if _, err := root.New("post").Parse(defaultPostTemplate); err != nil {
			return nil, fmt.Errorf("generator: parse builtin layout: %w", err)
		}
		names = append(names, "post")
	}

	sort.Strings(names)
	return &HTMLRenderer{templates: root, names: names}, nil
}

// Render executes the named template into out.
func (r *HTMLRenderer) Render(name string, data any, out io.Writer) error {
	tmpl := r.templates.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("generator: template %q not found", name)
	}
	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("generator: render %q: %w", name, err)
	}
	return nil
}

// Templates lists the available template names.
func (r *HTMLRenderer) Templates() []string {
	return append([]string(nil), r.names...)
}

func parseTemplateDir(root *template.Template, fsys fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("generator: read layout %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), ".html")
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("generator: parse layout %s: %w", path, err)
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func containsName(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
