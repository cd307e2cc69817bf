// Package render produces the static configuration consumed by the external
// sphinx renderer: project metadata, theme settings, and the breathe binding
// that points the renderer at the extractor's output directory.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ddinu/doxybuild/internal/config"
	"github.com/ddinu/doxybuild/internal/logfields"
)

// ConfigFileName is the renderer's configuration entry point.
const ConfigFileName = "conf.py"

// Settings collects everything the generated renderer configuration depends
// on. The extractor binding (project id and output directory) is derived
// here so it cannot drift from the directories the extractor wrote to.
type Settings struct {
	Project config.ProjectConfig
	Render  config.RenderConfig
	Paths   config.Paths
}

// ProjectID derives the extractor project identifier used in the breathe
// binding. The same identifier is set as the default project, keeping both
// sides of the binding consistent by construction.
func ProjectID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// GenerateConfig renders the full renderer configuration source text.
func GenerateConfig(s Settings) string {
	var b strings.Builder

	fmt.Fprintf(&b, "project = %s\n", pyStr(s.Project.Name))
	fmt.Fprintf(&b, "master_doc = %s\n", pyStr(s.Render.MasterDoc))
	b.WriteString("\n")

	id := ProjectID(s.Project.Name)
	b.WriteString("extensions = ['breathe']\n")
	fmt.Fprintf(&b, "breathe_projects = {\n    %s: %s,\n}\n", pyStr(id), pyStr(s.Paths.DoxygenOutputDir))
	fmt.Fprintf(&b, "breathe_default_project = %s\n", pyStr(id))
	// Every extracted signature is interpreted as C++ regardless of file name.
	b.WriteString("breathe_domain_by_file_pattern = {\n    '*': 'cpp',\n}\n")
	b.WriteString("\n")

	fmt.Fprintf(&b, "html_theme = %s\n", pyStr(s.Render.Theme))
	b.WriteString("html_theme_options = {\n")
	o := s.Render.ThemeOptions
	fmt.Fprintf(&b, "    'description': %s,\n", pyStr(o.Description))
	fmt.Fprintf(&b, "    'github_user': %s,\n", pyStr(o.GithubUser))
	fmt.Fprintf(&b, "    'github_repo': %s,\n", pyStr(o.GithubRepo))
	fmt.Fprintf(&b, "    'github_button': %s,\n", pyBool(o.GithubButton))
	fmt.Fprintf(&b, "    'font_family': %s,\n", pyStr(o.FontFamily))
	fmt.Fprintf(&b, "    'head_font_family': %s,\n", pyStr(o.HeadFontFamily))
	b.WriteString("}\n")
	fmt.Fprintf(&b, "pygments_style = %s\n", pyStr(s.Render.PygmentsStyle))
	b.WriteString("\n")

	b.WriteString("html_sidebars = {\n")
	scopes := make([]string, 0, len(s.Render.Sidebars))
	for scope := range s.Render.Sidebars {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	for _, scope := range scopes {
		fmt.Fprintf(&b, "    %s: %s,\n", pyStr(scope), pyStrList(s.Render.Sidebars[scope]))
	}
	b.WriteString("}\n")

	return b.String()
}

// WriteConfig writes the renderer configuration into the docs source
// directory and returns the written path.
func WriteConfig(s Settings) (string, error) {
	configPath := filepath.Join(s.Paths.DocsSourceDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(GenerateConfig(s)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write renderer config: %w", err)
	}
	slog.Info("Generated renderer configuration", logfields.Path(configPath))
	return configPath, nil
}

func pyStr(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func pyStrList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pyStr(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
