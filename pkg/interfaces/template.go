package interfaces

import "io"

// TemplateRenderer renders a named layout template with the supplied data.
// The generator resolves layout names from front matter (falling back to the
// theme default) and streams the result into the output artifact.
type TemplateRenderer interface {
	Render(name string, data any, out io.Writer) error
	// Templates reports the layout names the renderer can resolve.
	Templates() []string
}
