// Package corpus enumerates a PukiWiki data tree and drives the page
// pipeline across it, one language at a time. Pages are processed
// sequentially; a single page's failure is logged and never aborts the
// walk.
package corpus

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CueMol/pw-to-mkdocs/internal/config"
	"github.com/CueMol/pw-to-mkdocs/internal/convert"
	"github.com/CueMol/pw-to-mkdocs/internal/logfields"
	"github.com/CueMol/pw-to-mkdocs/internal/pwname"
)

// ErrAttachmentShape indicates an attachment file name that does not split
// into exactly two hex-encoded halves (<page>_<attachment>).
var ErrAttachmentShape = fmt.Errorf("attachment name is not <page>_<attachment>")

// Walker enumerates wiki sources and attachments for every configured
// language and feeds them through the pipeline.
type Walker struct {
	cfg      *config.Config
	pipeline *convert.Pipeline
}

// NewWalker builds a Walker and its page pipeline from configuration.
func NewWalker(cfg *config.Config) *Walker {
	return &Walker{cfg: cfg, pipeline: convert.NewPipeline(cfg)}
}

// Run walks the whole corpus: attachments first, then every language's wiki
// pages in sequence. The context is only consulted between pages, so an
// interrupt stops the walk cleanly without tearing a page in half.
func (w *Walker) Run(ctx context.Context) (*Report, error) {
	report := NewReport()
	slog.Info("Starting corpus walk", logfields.RunID(report.RunID), logfields.Source(w.cfg.Source.Directory))

	if err := w.processAttachments(ctx, report); err != nil {
		return report, err
	}

	for _, lang := range w.cfg.Languages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := w.walkLanguage(ctx, lang, report); err != nil {
			return report, err
		}
	}

	report.Finish()
	slog.Info("Corpus walk finished",
		logfields.RunID(report.RunID),
		logfields.Count(len(report.Pages)),
		logfields.DurationMS(float64(report.FinishedAt.Sub(report.StartedAt).Microseconds())/1000),
		slog.Int("failed", report.TotalFailed()))
	return report, nil
}

// walkLanguage converts every wiki source file under one language subtree.
func (w *Walker) walkLanguage(ctx context.Context, lang config.Language, report *Report) error {
	root := filepath.Join(w.cfg.Source.Directory, filepath.FromSlash(lang.WikiDir))
	sources, err := listFiles(root, func(name string) bool {
		return strings.HasSuffix(name, ".txt")
	})
	if err != nil {
		slog.Warn("No wiki sources for language", logfields.Language(lang.Name), logfields.Path(root), logfields.Error(err))
		return nil
	}
	slog.Info("Converting language", logfields.Language(lang.Name), logfields.Count(len(sources)))

	stats := report.lang(lang.Name)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := w.pipeline.ConvertFile(src, lang.Name)
		if err != nil {
			stats.Failed++
			slog.Error("Page conversion failed", logfields.Source(src), logfields.Language(lang.Name), logfields.Error(err))
			continue
		}
		if res.Skipped {
			stats.Skipped++
			continue
		}
		stats.Converted++
		report.Pages = append(report.Pages, PageEntry{
			Language:   lang.Name,
			Name:       res.Page.Name,
			OutputPath: res.OutputPath,
		})
	}
	return nil
}

// processAttachments copies every attachment into the per-page image
// directory. Attachment names carry no extension; anything with one is not
// an attachment blob and is ignored.
func (w *Walker) processAttachments(ctx context.Context, report *Report) error {
	dir := filepath.Join(w.cfg.Source.Directory, filepath.FromSlash(w.cfg.Source.AttachDir))
	files, err := listFiles(dir, func(name string) bool {
		return filepath.Ext(name) == ""
	})
	if err != nil {
		slog.Warn("No attachment directory", logfields.Path(dir), logfields.Error(err))
		return nil
	}

	imgRoot := filepath.Join(w.cfg.Output.Directory, filepath.FromSlash(w.cfg.Output.ImageDir))
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.copyAttachment(src, imgRoot); err != nil {
			report.AttachmentFailures++
			slog.Error("Attachment failed", logfields.Source(src), logfields.Error(err))
			continue
		}
		report.Attachments++
	}
	return nil
}

// copyAttachment decodes an attachment file name and copies the blob to
// <image root>/<page>/<attachment>.
func (w *Walker) copyAttachment(src, imgRoot string) error {
	base := filepath.Base(src)
	halves := strings.Split(base, "_")
	if len(halves) != 2 {
		return fmt.Errorf("%s: %w", base, ErrAttachmentShape)
	}
	pageName, err := pwname.Decode(halves[0])
	if err != nil {
		return err
	}
	refName, err := pwname.Decode(halves[1])
	if err != nil {
		return err
	}
	if pageName == w.cfg.Convert.FrontPage {
		pageName = convert.IndexPageName
	}

	targetDir := filepath.Join(imgRoot, filepath.FromSlash(pageName))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(targetDir, refName)
	if err := copyFile(src, target); err != nil {
		return err
	}
	slog.Info("Copied attachment", logfields.Page(pageName), logfields.Attachment(refName))
	return nil
}

// listFiles returns all regular files under root whose base name passes the
// filter, in lexical walk order so runs are deterministic.
func listFiles(root string, keep func(name string) bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if keep(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
