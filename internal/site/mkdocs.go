// Package site emits the MkDocs configuration for a converted corpus.
package site

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// mkdocsConfig models the subset of mkdocs.yml this tool writes.
type mkdocsConfig struct {
	SiteName        string              `yaml:"site_name"`
	SiteDescription string              `yaml:"site_description"`
	DocsDir         string              `yaml:"docs_dir"`
	Theme           themeConfig         `yaml:"theme"`
	MarkdownExts    []any               `yaml:"markdown_extensions"`
	Nav             []map[string]string `yaml:"nav"`
}

type themeConfig struct {
	Name     string   `yaml:"name"`
	Language string   `yaml:"language"`
	Features []string `yaml:"features"`
}

// WriteConfig renders mkdocs.yml for the converted site. docsDir is the
// default-language output subtree relative to the config file; pages are
// the default-language page names; the front page is always the first nav
// entry.
func WriteConfig(path, siteName, docsDir string, pages []string) error {
	cfg := mkdocsConfig{
		SiteName:        siteName,
		SiteDescription: "Migrated from PukiWiki",
		DocsDir:         docsDir,
		Theme: themeConfig{
			Name:     "material",
			Language: "ja",
			Features: []string{
				"navigation.tabs",
				"navigation.sections",
				"navigation.expand",
				"search.highlight",
				"search.suggest",
			},
		},
		MarkdownExts: []any{
			"pymdownx.highlight",
			"pymdownx.superfences",
			"admonition",
			"attr_list",
			"footnotes",
			map[string]map[string]bool{"toc": {"permalink": true}},
		},
		Nav: buildNav(pages),
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal mkdocs config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func buildNav(pages []string) []map[string]string {
	nav := []map[string]string{{"Home": "index.md"}}

	sorted := make([]string, 0, len(pages))
	for _, p := range pages {
		if p != "index" {
			sorted = append(sorted, p)
		}
	}
	sort.Strings(sorted)

	for _, p := range sorted {
		title := strings.ReplaceAll(p, "_", " ")
		nav = append(nav, map[string]string{title: p + ".md"})
	}
	return nav
}
