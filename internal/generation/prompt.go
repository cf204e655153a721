package generation

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Names of the built-in prompt templates.
const (
	SummaryTemplate      = "summary"
	ExtractTasksTemplate = "extract_tasks"
)

const (
	systemBlock = "system"
	userBlock   = "user"
	templateExt = ".tmpl"
)

//go:embed prompts/*.tmpl
var embeddedPrompts embed.FS

// PromptTemplate is a named prompt with a system block and a user block.
//
// Templates use text/template syntax and must define a "user" template; a
// "system" template is optional:
//
//	{{define "system"}}You are ...{{end}}
//	{{define "user"}}Summarize:\n\n{{.NotesText}}{{end}}
type PromptTemplate struct {
	name string
	tmpl *template.Template
}

// ParsePromptTemplate parses template text under the given name.
func ParsePromptTemplate(name, text string) (*PromptTemplate, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template %s: %v", ErrInvalidConfig, name, err)
	}

	if tmpl.Lookup(userBlock) == nil {
		return nil, fmt.Errorf("%w: prompt template %s does not define %q", ErrInvalidConfig, name, userBlock)
	}

	return &PromptTemplate{name: name, tmpl: tmpl}, nil
}

// LoadPromptTemplate loads the named template. When dir is non-empty and
// contains <name>.tmpl, that file is used; otherwise the built-in template
// of the same name is returned.
func LoadPromptTemplate(name, dir string) (*PromptTemplate, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name+templateExt))
		switch {
		case err == nil:
			return ParsePromptTemplate(name, string(data))
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: failed to read prompt template %s: %v", ErrInvalidConfig, name, err)
		}
	}

	data, err := embeddedPrompts.ReadFile("prompts/" + name + templateExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return ParsePromptTemplate(name, string(data))
}

// MustLoadPromptTemplate is like LoadPromptTemplate with no override
// directory, and panics on error. It is meant for built-in template names.
func MustLoadPromptTemplate(name string) *PromptTemplate {
	t, err := LoadPromptTemplate(name, "")
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template name.
func (t *PromptTemplate) Name() string {
	return t.name
}

// Render executes the system and user blocks with vars.
func (t *PromptTemplate) Render(vars any) (system string, user string, err error) {
	if t.tmpl.Lookup(systemBlock) != nil {
		system, err = t.execute(systemBlock, vars)
		if err != nil {
			return "", "", err
		}
	}

	user, err = t.execute(userBlock, vars)
	if err != nil {
		return "", "", err
	}

	return system, user, nil
}

func (t *PromptTemplate) execute(block string, vars any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, block, vars); err != nil {
		return "", fmt.Errorf("failed to execute %s block of prompt template %s: %w", block, t.name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
