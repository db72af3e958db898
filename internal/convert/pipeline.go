package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CueMol/pw-to-mkdocs/internal/config"
	"github.com/CueMol/pw-to-mkdocs/internal/logfields"
	"github.com/CueMol/pw-to-mkdocs/internal/pwname"
	"github.com/CueMol/pw-to-mkdocs/internal/textenc"
	"github.com/CueMol/pw-to-mkdocs/internal/util/sets"
)

// Transform is one stage of the per-page conversion.
type Transform struct {
	Name string
	Fn   func(*Document, Options) error
}

// Transforms returns the per-page stages in execution order: links first,
// then image references, then the markup rules. Later stages consume text
// the earlier ones produced, so the order is fixed.
func Transforms() []Transform {
	return []Transform{
		{"resolve-links", resolveLinks},
		{"translate-images", translateImages},
		{"rewrite-markup", rewriteMarkup},
	}
}

// Pipeline converts individual wiki source files into Markdown documents
// plus a verbatim backup of the original text.
type Pipeline struct {
	Opts           Options
	OutputRoot     string
	FrontPage      string
	SkipPages      sets.Set[string]
	ForcedEncoding string
}

// NewPipeline wires a Pipeline from configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		Opts: Options{
			DefaultLanguage: cfg.DefaultLanguage(),
			LinkStyle:       config.NormalizeLinkStyle(cfg.Convert.LinkStyle),
			ImageBase:       cfg.Output.ImageDir,
		},
		OutputRoot:     cfg.Output.Directory,
		FrontPage:      cfg.Convert.FrontPage,
		SkipPages:      sets.New(cfg.Convert.SkipPages...),
		ForcedEncoding: cfg.Convert.Encoding,
	}
}

// Result describes the outcome of converting one source file.
type Result struct {
	Page       Page
	Skipped    bool
	Encoding   string
	OutputPath string
	BackupPath string
}

// PageIdentity derives the output identity for an encoded source file name.
// The second return is true when the page is on the skip list and must
// produce no output at all.
func (p *Pipeline) PageIdentity(srcPath, lang string) (Page, bool, error) {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	name, err := pwname.Decode(base)
	if err != nil {
		return Page{}, false, err
	}
	if p.SkipPages.Has(name) {
		return Page{Name: name, Language: lang}, true, nil
	}
	if name == p.FrontPage {
		name = IndexPageName
	}
	return Page{Name: name, Language: lang}, false, nil
}

// Convert runs the transform stages over a document in order. The document
// is modified in place; any stage error aborts the page.
func (p *Pipeline) Convert(doc *Document) error {
	for _, t := range Transforms() {
		if err := t.Fn(doc, p.Opts); err != nil {
			return fmt.Errorf("transform %s: %w", t.Name, err)
		}
	}
	return nil
}

// ConvertFile reads, decodes, converts, and writes one wiki source file.
// On success two artifacts exist under <output>/<language>/: the Markdown
// document and a verbatim copy of the original source text.
func (p *Pipeline) ConvertFile(srcPath, lang string) (*Result, error) {
	page, skipped, err := p.PageIdentity(srcPath, lang)
	if err != nil {
		return nil, err
	}
	if skipped {
		slog.Info("Skipping reserved page", logfields.Page(page.Name), logfields.Source(srcPath))
		return &Result{Page: page, Skipped: true}, nil
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", srcPath, err)
	}

	label := p.ForcedEncoding
	if label == "" {
		label = textenc.Detect(raw)
	}
	text, decErr := textenc.Decode(raw, label)
	if decErr != nil {
		slog.Warn("Lenient decode", logfields.Source(srcPath), logfields.Encoding(label), logfields.Error(decErr))
	}

	doc := &Document{
		Page:       page,
		SourcePath: srcPath,
		Encoding:   label,
		Original:   text,
		Content:    text,
	}
	if err := p.Convert(doc); err != nil {
		return nil, err
	}

	outPath := filepath.Join(p.OutputRoot, lang, filepath.FromSlash(page.TargetPath()))
	backupPath := filepath.Join(p.OutputRoot, lang, filepath.FromSlash(page.BackupPath()))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(doc.Content), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := os.WriteFile(backupPath, []byte(doc.Original), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", backupPath, err)
	}

	slog.Info("Converted page",
		logfields.Page(page.Name),
		logfields.Language(lang),
		logfields.Encoding(label),
		logfields.Target(outPath))
	return &Result{
		Page:       page,
		Encoding:   label,
		OutputPath: outPath,
		BackupPath: backupPath,
	}, nil
}
