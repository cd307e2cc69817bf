// Package doxygen drives the external doxygen binary to produce a
// machine-readable interface description of a C++ source tree. Configuration
// is passed as newline-delimited KEY = value directives on the child's
// standard input instead of a Doxyfile on disk.
package doxygen

import (
	"fmt"
	"strings"
)

// Directive is a single line of extractor configuration.
type Directive struct {
	Key   string
	Value string
}

func (d Directive) String() string { return d.Key + " = " + d.Value }

// Options selects what the extractor runs over and where its output lands.
// Directory values must be the resolved absolute paths so the renderer finds
// the output where its configuration points.
type Options struct {
	ProjectName string
	InputDir    string
	OutputDir   string
}

// Directives returns the ordered extractor configuration. XML output only:
// the renderer consumes the XML, so HTML and LaTeX generation stay off.
func Directives(opts Options) []Directive {
	return []Directive{
		{"PROJECT_NAME", fmt.Sprintf("%q", opts.ProjectName)},
		{"GENERATE_XML", "YES"},
		{"INPUT", opts.InputDir},
		{"OUTPUT_DIRECTORY", opts.OutputDir},
		{"XML_OUTPUT", opts.OutputDir},
		{"RECURSIVE", "YES"},
		{"GENERATE_HTML", "NO"},
		{"GENERATE_LATEX", "NO"},
		{"QUIET", "YES"},
	}
}

// Join serializes directives as the newline-joined text fed to the
// extractor's standard input.
func Join(directives []Directive) string {
	lines := make([]string, len(directives))
	for i, d := range directives {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
