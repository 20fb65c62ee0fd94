package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/errors"
)

func seedAnswers(t *testing.T, ctx context.Context, ledger *Ledger) {
	t.Helper()
	for _, a := range []AnswerInput{
		{Type: activity.Journaling, PromptID: 2, Tab: "Gratitude", Level: 1, Answer: "My sister & her dog"},
		{Type: activity.Journaling, PromptID: 1, Tab: "Mood", Level: 1, Answer: "Sunlight\nand tea"},
	} {
		_, err := ledger.RecordAnswer(ctx, a)
		mustNoErr(t, err)
	}
}

// readExport returns the file at path, failing unless it contains every want.
func readExport(t *testing.T, path string, want ...string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	mustNoErr(t, err)
	text := string(data)
	for _, w := range want {
		if !strings.Contains(text, w) {
			t.Errorf("export missing %q:\n%s", w, text)
		}
	}
	return text
}

func TestExportSummary_Markdown(t *testing.T) {
	ledger, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()
	seedAnswers(t, ctx, ledger)

	dir := t.TempDir()
	cfg := newTestConfig()
	cfg.AllowedPaths = []string{dir}
	path := filepath.Join(dir, "journal.md")

	out, err := ExportSummary(ctx, database, cfg, ExportSummaryInput{Type: "journaling", Path: path})
	mustNoErr(t, err)
	if out.Format != FormatMarkdown || out.Groups != 2 || out.Entries != 2 {
		t.Errorf("out = %+v, want markdown with 2 groups and 2 entries", out)
	}

	text := readExport(t, path, "## Gratitude", "> Sunlight\n> and tea")
	if !strings.HasPrefix(text, "# Journaling summary") {
		t.Errorf("missing title:\n%s", text)
	}
	if strings.Index(text, "## Gratitude") > strings.Index(text, "## Mood") {
		t.Error("tabs out of order")
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	mustNoErr(t, err)
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestExportSummary_HTML(t *testing.T) {
	ledger, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()
	seedAnswers(t, ctx, ledger)

	dir := t.TempDir()
	cfg := newTestConfig()
	cfg.AllowedPaths = []string{dir}
	path := filepath.Join(dir, "journal.html")

	out, err := ExportSummary(ctx, database, cfg, ExportSummaryInput{Type: activity.Journaling, Path: path})
	mustNoErr(t, err)
	if out.Format != FormatHTML {
		t.Errorf("format = %s, want html", out.Format)
	}

	readExport(t, path,
		"<title>Journaling summary</title>",
		"<h2>Gratitude</h2>",
		"<blockquote>",
		"My sister &amp; her dog",
	)
}

func TestExportSummary_DefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()

	out, err := ExportSummary(ctx, database, newTestConfig(), ExportSummaryInput{Type: activity.DigitalDetox, Format: FormatHTML})
	mustNoErr(t, err)

	dir, err := DefaultExportsDir()
	mustNoErr(t, err)
	if filepath.Dir(out.Path) != dir {
		t.Errorf("path %s not under %s", out.Path, dir)
	}
	if base := filepath.Base(out.Path); !strings.HasPrefix(base, "digital-detox-summary-") || filepath.Ext(base) != ".html" {
		t.Errorf("file name = %s", base)
	}
	if out.Entries != 0 {
		t.Errorf("entries = %d, want 0", out.Entries)
	}

	readExport(t, out.Path, "No answers yet.")
}

func TestExportSummary_Rejections(t *testing.T) {
	_, database, _ := newTestLedger(t, wednesday)
	ctx := context.Background()
	dir := t.TempDir()
	cfg := newTestConfig()
	cfg.AllowedPaths = []string{dir}

	tests := []struct {
		name  string
		input ExportSummaryInput
		code  errors.ErrorCode
	}{
		{"unknown type", ExportSummaryInput{Type: "Yoga", Path: filepath.Join(dir, "x.md")}, errors.ErrUnknownActivity},
		{"bad extension", ExportSummaryInput{Type: activity.Journaling, Path: filepath.Join(dir, "x.txt")}, errors.ErrInvalidRequest},
		{"bad format", ExportSummaryInput{Type: activity.Journaling, Format: "pdf"}, errors.ErrInvalidRequest},
		{"format mismatch", ExportSummaryInput{Type: activity.Journaling, Path: filepath.Join(dir, "x.md"), Format: FormatHTML}, errors.ErrInvalidRequest},
		{"outside allowed", ExportSummaryInput{Type: activity.Journaling, Path: filepath.Join(t.TempDir(), "x.md")}, errors.ErrInvalidRequest},
		{"traversal", ExportSummaryInput{Type: activity.Journaling, Path: dir + "/../x.md"}, errors.ErrInvalidRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExportSummary(ctx, database, cfg, tc.input)
			requireCode(t, err, tc.code)
		})
	}
}
