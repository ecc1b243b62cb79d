package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
)

// Manager lazily parses and caches the page templates under templatesDir.
type Manager struct {
	templatesDir string
	mu           sync.Mutex
	cache        map[string]*template.Template
}

func NewManager(templatesDir string) *Manager {
	return &Manager{
		templatesDir: templatesDir,
		cache:        make(map[string]*template.Template),
	}
}

func (m *Manager) lookup(templateName string) (*template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl, ok := m.cache[templateName]
	if !ok {
		// Lazily load template
		path := filepath.Join(m.templatesDir, templateName)
		var err error
		tmpl, err = template.ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
		}
		m.cache[templateName] = tmpl
	}
	return tmpl, nil
}

func (m *Manager) Render(templateName string, data interface{}) (string, error) {
	tmpl, err := m.lookup(templateName)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// RenderTo writes the rendered template to the response with the given
// status. Render errors become a bare 500 so a broken template cannot leak
// a half-written page.
func (m *Manager) RenderTo(w http.ResponseWriter, status int, templateName string, data interface{}) error {
	html, err := m.Render(templateName, data)
	if err != nil {
		http.Error(w, "Something went wrong!", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, werr := w.Write([]byte(html))
	return werr
}
