package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/CueMol/pw-to-mkdocs/internal/config"
	"github.com/CueMol/pw-to-mkdocs/internal/corpus"
	"github.com/CueMol/pw-to-mkdocs/internal/linkcheck"
	"github.com/CueMol/pw-to-mkdocs/internal/logfields"
	"github.com/CueMol/pw-to-mkdocs/internal/pwname"
	"github.com/CueMol/pw-to-mkdocs/internal/site"
	"github.com/CueMol/pw-to-mkdocs/internal/util/sets"
	"github.com/CueMol/pw-to-mkdocs/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Convert struct {
		SourceDir string `short:"s" help:"PukiWiki data directory (overrides config)"`
		OutputDir string `short:"o" help:"Output directory for Markdown (overrides config)"`
		SiteName  string `help:"Site name for the generated MkDocs config"`
		Encoding  string `help:"Force the source text encoding, skipping detection"`
		LinkStyle string `help:"Link target style: root or nested"`
		NoSite    bool   `help:"Do not write mkdocs.yml"`
		Report    string `help:"Write a JSON run report to this path"`
	} `cmd:"" help:"Convert a PukiWiki corpus into a Markdown tree"`

	Decode struct{} `cmd:"" help:"Decode hex-encoded PukiWiki file names from stdin (pipe ls through it)"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct{} `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "convert":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		setupLogging(cfg)
		if err := runConvert(cfg); err != nil {
			slog.Error("Conversion failed", logfields.Error(err))
			os.Exit(1)
		}
	case "decode":
		if err := runDecode(os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("pw2mkdocs %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

// loadConfig reads the YAML config and applies command-line overrides.
// Missing config files are tolerated for convert when the source and output
// directories are given as flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		if CLI.Convert.SourceDir == "" || CLI.Convert.OutputDir == "" {
			return nil, err
		}
		cfg = config.Default()
	}
	if CLI.Convert.SourceDir != "" {
		cfg.Source.Directory = CLI.Convert.SourceDir
	}
	if CLI.Convert.OutputDir != "" {
		cfg.Output.Directory = CLI.Convert.OutputDir
	}
	if CLI.Convert.SiteName != "" {
		cfg.Site.Name = CLI.Convert.SiteName
	}
	if CLI.Convert.Encoding != "" {
		cfg.Convert.Encoding = CLI.Convert.Encoding
	}
	if CLI.Convert.LinkStyle != "" {
		cfg.Convert.LinkStyle = string(config.NormalizeLinkStyle(CLI.Convert.LinkStyle))
	}
	if CLI.Convert.NoSite {
		cfg.Site.GenerateConfig = false
	}
	return cfg, cfg.Validate()
}

func setupLogging(cfg *config.Config) {
	level := config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runConvert(cfg *config.Config) error {
	// An interrupt stops the walk between pages; partially written pages
	// are not rolled back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	walker := corpus.NewWalker(cfg)
	report, err := walker.Run(ctx)
	if err != nil {
		return err
	}

	auditLinks(cfg, report)

	if cfg.Site.GenerateConfig {
		pages := defaultLanguagePages(cfg, report)
		configPath := filepath.Join(filepath.Dir(cfg.Output.Directory), "mkdocs.yml")
		docsDir := filepath.ToSlash(filepath.Join(filepath.Base(cfg.Output.Directory), cfg.DefaultLanguage()))
		if err := site.WriteConfig(configPath, cfg.Site.Name, docsDir, pages); err != nil {
			return err
		}
		slog.Info("Wrote MkDocs configuration", logfields.Path(configPath))
	}

	if CLI.Convert.Report != "" {
		if err := report.WriteJSON(CLI.Convert.Report); err != nil {
			return err
		}
		slog.Info("Wrote run report", logfields.Path(CLI.Convert.Report), logfields.RunID(report.RunID))
	}
	return nil
}

func defaultLanguagePages(cfg *config.Config, report *corpus.Report) []string {
	defLang := cfg.DefaultLanguage()
	var pages []string
	for _, p := range report.Pages {
		if p.Language == defLang {
			pages = append(pages, p.Name)
		}
	}
	return pages
}

// auditLinks parses every produced Markdown file and warns about internal
// destinations no converted page or copied asset provides. Advisory only.
func auditLinks(cfg *config.Config, report *corpus.Report) {
	known := knownTargets(cfg, report)
	for _, p := range report.Pages {
		body, err := os.ReadFile(p.OutputPath)
		if err != nil {
			continue
		}
		missing := linkcheck.Unresolved(linkcheck.Extract(body), known.Has)
		for _, target := range missing {
			slog.Warn("Unresolved internal link", logfields.Page(p.Name), logfields.Target(target))
		}
	}
}

// knownTargets builds the set of site-root destinations the converted tree
// can serve: one per page (language-prefixed for non-default languages) and
// one per copied image.
func knownTargets(cfg *config.Config, report *corpus.Report) sets.Set[string] {
	known := sets.New[string]()
	defLang := cfg.DefaultLanguage()
	for _, p := range report.Pages {
		if p.Language == defLang {
			known.Add("/" + p.Name)
		} else {
			known.Add("/" + p.Language + "/" + p.Name)
		}
	}

	imgRoot := filepath.Join(cfg.Output.Directory, filepath.FromSlash(cfg.Output.ImageDir))
	_ = filepath.WalkDir(imgRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(cfg.Output.Directory, path)
		if relErr != nil {
			return nil
		}
		known.Add("/" + filepath.ToSlash(rel))
		return nil
	})
	return known
}

// runDecode turns hex-encoded PukiWiki file names readable. Meant for
// pipelines like "ls -ltr | pw2mkdocs decode".
func runDecode(in *os.File) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fmt.Println(pwname.DecodeLine(strings.TrimRight(scanner.Text(), "\r\n")))
	}
	return scanner.Err()
}

func runInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", path)
	}
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
