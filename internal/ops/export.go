package ops

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jack22dx/seed/internal/config"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/logger"
)

// ExportFormat selects the rendering of an exported summary.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatHTML     ExportFormat = "html"
)

// ExportSummaryInput contains parameters for ExportSummary.
type ExportSummaryInput struct {
	Type   string       // required
	Since  int64        // optional, as in SummaryInput
	Path   string       // optional, default: ~/.seed/exports/<type>-summary-<timestamp>.<format>
	Format ExportFormat // optional; default: from Path's extension, else markdown
}

// ExportSummaryOutput contains the result of ExportSummary.
type ExportSummaryOutput struct {
	Path       string       `json:"path"`
	Format     ExportFormat `json:"format"`
	Groups     int          `json:"groups"`
	Entries    int          `json:"entries"`
	ExportedAt int64        `json:"exported_at"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExportSummary renders WeeklySummary to a Markdown or HTML file. The file is
// written to a temp sibling and renamed into place, so an existing export is
// never left half-written.
func ExportSummary(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportSummaryInput) (*ExportSummaryOutput, error) {
	now := time.Now()

	summary, err := WeeklySummary(ctx, database, SummaryInput{Type: input.Type, Since: input.Since})
	if err != nil {
		return nil, err
	}

	format := input.Format
	exportPath := input.Path
	if format == "" {
		format = FormatMarkdown
		if f, ok := exportExtensions[filepath.Ext(exportPath)]; ok {
			format = f
		}
	}
	if format != FormatMarkdown && format != FormatHTML {
		return nil, errors.NewInvalidRequest("format must be one of: md, html")
	}
	if exportPath == "" {
		exportPath, err = defaultExportPath(summary.Type, format, now)
		if err != nil {
			return nil, err
		}
	}
	if f, ok := exportExtensions[filepath.Ext(exportPath)]; ok && f != format {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("path extension does not match format %q", format))
	}

	// Default paths are validated too: the type ends up in the file name.
	if err := ValidatePath(exportPath, cfg); err != nil {
		return nil, err
	}

	doc := renderMarkdown(summary, now)
	body := []byte(doc)
	if format == FormatHTML {
		var buf bytes.Buffer
		if err := markdown.Convert(body, &buf); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("failed to render summary: %w", err))
		}
		body = wrapHTML(summary.Type+" summary", buf.Bytes())
	}

	if err := writeFileAtomic(exportPath, body); err != nil {
		return nil, err
	}

	logger.Info("summary exported", "type", summary.Type, "path", exportPath, "format", format, "entries", summary.Total)
	return &ExportSummaryOutput{
		Path:       exportPath,
		Format:     format,
		Groups:     len(summary.Groups),
		Entries:    summary.Total,
		ExportedAt: now.Unix(),
	}, nil
}

func renderMarkdown(s *SummaryOutput, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s summary\n\n", s.Type)
	fmt.Fprintf(&b, "_Exported %s_", now.Format("2006-01-02 15:04"))
	if s.Since > 0 {
		fmt.Fprintf(&b, " _covering answers since %s_", time.Unix(s.Since, 0).In(now.Location()).Format("2006-01-02"))
	}
	b.WriteString("\n")

	if len(s.Groups) == 0 {
		b.WriteString("\nNo answers yet.\n")
	}
	for _, g := range s.Groups {
		tab := g.Tab
		if tab == "" {
			tab = "General"
		}
		fmt.Fprintf(&b, "\n## %s\n", tab)
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "\n### %s\n\n", e.Prompt)
			for _, line := range strings.Split(strings.TrimSpace(e.Answer), "\n") {
				fmt.Fprintf(&b, "> %s\n", line)
			}
			fmt.Fprintf(&b, "\n_level %d, %s_\n", e.Level, time.Unix(e.Date, 0).In(now.Location()).Format("Mon Jan 2"))
		}
	}
	return b.String()
}

func wrapHTML(title string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.WriteString(html.EscapeString(title))
	buf.WriteString("</title>\n</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

// writeFileAtomic writes data to a temp sibling of path and renames it into
// place. The temp file is removed on any failure.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// On Windows os.Rename fails when the destination exists; keep the old
	// file rather than delete-then-rename.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath returns ~/.seed/exports/<type>-summary-<timestamp>.<format>.
func defaultExportPath(typ string, format ExportFormat, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	name := SanitizeForFilename(strings.ToLower(typ))
	return filepath.Join(dir, fmt.Sprintf("%s-summary-%s.%s", name, now.Format("2006-01-02T150405"), format)), nil
}
