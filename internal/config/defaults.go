package config

import (
	"fmt"
	"os"
	"time"
)

// Defaults mirror the settings the rendered site shipped with before this
// tool existed; overriding any of them in doxybuild.yaml is optional.
const (
	DefaultProjectName = "Observable"
	defaultDescription = "Generic observable objects for C++"
	defaultGithubUser  = "ddinu"
	defaultGithubRepo  = "observable"
	defaultMasterDoc   = "index"
	defaultTheme       = "alabaster"
	defaultPygments    = "xcode"
	defaultFontFamily  = "Helvetica, Arial, sans-serif"

	defaultSphinxBuilder = "html"
	defaultSiteOutputDir = "_build"

	defaultListen      = ":8080"
	defaultDebounce    = 2 * time.Second
	defaultNATSSubject = "doxybuild.builds"
)

func (c *Config) applyDefaults() {
	if c.Project.Name == "" {
		c.Project.Name = DefaultProjectName
	}
	if c.Project.Description == "" {
		c.Project.Description = defaultDescription
	}
	if c.Project.GithubUser == "" {
		c.Project.GithubUser = defaultGithubUser
	}
	if c.Project.GithubRepo == "" {
		c.Project.GithubRepo = defaultGithubRepo
	}

	r := &c.Render
	if r.MasterDoc == "" {
		r.MasterDoc = defaultMasterDoc
	}
	if r.Theme == "" {
		r.Theme = defaultTheme
	}
	if r.PygmentsStyle == "" {
		r.PygmentsStyle = defaultPygments
	}
	if r.SphinxBuilder == "" {
		r.SphinxBuilder = defaultSphinxBuilder
	}
	if r.SiteOutputDir == "" {
		r.SiteOutputDir = defaultSiteOutputDir
	}
	if r.Sidebars == nil {
		r.Sidebars = map[string][]string{
			"**": {"globaltoc.html", "searchbox.html"},
		}
	}

	o := &r.ThemeOptions
	if o.Description == "" {
		o.Description = c.Project.Description
	}
	if o.GithubUser == "" {
		o.GithubUser = c.Project.GithubUser
	}
	if o.GithubRepo == "" {
		o.GithubRepo = c.Project.GithubRepo
	}
	if o.GithubUser != "" && o.GithubRepo != "" {
		o.GithubButton = true
	}
	if o.FontFamily == "" {
		o.FontFamily = defaultFontFamily
	}
	if o.HeadFontFamily == "" {
		o.HeadFontFamily = defaultFontFamily
	}

	d := &c.Daemon
	if d.Listen == "" {
		d.Listen = defaultListen
	}
	if d.NATSSubject == "" {
		d.NATSSubject = defaultNATSSubject
	}
	if d.HistoryPath == "" {
		d.HistoryPath = "doxybuild-history.db"
	}
}

const starterConfig = `# doxybuild configuration
project:
  name: Observable
  description: Generic observable objects for C++
  github_user: ddinu
  github_repo: observable

# Uncomment to document a remote checkout instead of the local tree.
# source:
#   url: https://github.com/ddinu/observable.git
#   branch: master

render:
  theme: alabaster
  pygments_style: xcode

verify:
  links: true

daemon:
  listen: ":8080"
  watch: true
  debounce: 2s
  rebuild_interval: 30m
`

// Init writes a starter configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
