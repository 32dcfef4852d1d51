package notification

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sort"
)

// Template files shipped in the templates directory.
const (
	TemplateRejectUser       = "email_template_reject_user.html"
	TemplateConfirmUser      = "email_template_user.html"
	TemplateConfirmTherapist = "email_template_therapist.html"
)

// RequiredTemplates lists every template the dispatcher can select.
var RequiredTemplates = []string{
	TemplateRejectUser,
	TemplateConfirmUser,
	TemplateConfirmTherapist,
}

// ErrTemplateNotFound is returned when rendering a name that was not loaded.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateSet is a parsed, read-only collection of HTML templates. It is
// built once at startup and shared by all requests.
type TemplateSet struct {
	root *template.Template
}

// LoadTemplates parses the named files from fsys. Every name must exist.
// Templates execute with missingkey=error so a placeholder without a value
// fails instead of rendering empty.
func LoadTemplates(fsys fs.FS, names ...string) (*TemplateSet, error) {
	if len(names) == 0 {
		return nil, errors.New("no templates requested")
	}
	for _, name := range names {
		if _, err := fs.Stat(fsys, name); err != nil {
			return nil, fmt.Errorf("loading template %q: %w", name, err)
		}
	}

	root, err := template.New("").Option("missingkey=error").ParseFS(fsys, names...)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &TemplateSet{root: root}, nil
}

// Render executes the named template with data and returns the HTML.
func (s *TemplateSet) Render(name string, data map[string]any) (string, error) {
	if s == nil || s.root == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	t := s.root.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Names returns the loaded template names in sorted order.
func (s *TemplateSet) Names() []string {
	var names []string
	for _, t := range s.root.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return names
}
