package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/config"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/garden"
	"github.com/jack22dx/seed/internal/ops"
)

// maxStdinBytes caps a journal answer read from stdin.
const maxStdinBytes = 64 * 1024

// newCLIApp creates the CLI application with all commands.
func newCLIApp(ledger *ops.Ledger, db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "seed",
		Usage:   "Activity progress and garden unlock engine",
		Version: Version,
		Commands: []*cli.Command{
			initCmd(ledger),
			completeCmd(ledger),
			activityCmd(ledger),
			gardenCmd(ledger, db, cfg),
			resetCmd(ledger),
			debugResetCmd(ledger),
			promptCmd(db),
			answerCmd(ledger),
			summaryCmd(ledger, db),
			exportSummaryCmd(ledger, db, cfg),
			factCmd(db),
			tipCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// initCmd creates the init command.
func initCmd(ledger *ops.Ledger) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Seed baseline activities, garden elements and content (idempotent)",
		Action: func(c *cli.Context) error {
			output, err := ledger.InitializeIfEmpty(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// completeCmd creates the complete command.
func completeCmd(ledger *ops.Ledger) *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Record one finished session of an activity",
		ArgsUsage: "<activity>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "element", Aliases: []string{"e"}, Usage: "Garden element to reveal if its threshold is met"},
		},
		Action: func(c *cli.Context) error {
			output, err := ledger.RecordCompletion(c.Context, ops.CompletionInput{
				Activity: joinArgs(c),
				Element:  c.String("element"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// activityCmd creates the activity command group.
func activityCmd(ledger *ops.Ledger) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Inspect activity progress",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every activity",
				Action: func(c *cli.Context) error {
					records, err := ledger.GetAll(c.Context)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{
						"week":       activity.WeekKey(ledger.Now()),
						"activities": records,
					})
				},
			},
			{
				Name:      "get",
				Usage:     "Show one activity",
				ArgsUsage: "<activity>",
				Action: func(c *cli.Context) error {
					rec, err := ledger.GetByName(c.Context, joinArgs(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(rec)
				},
			},
		},
	}
}

// gardenCmd creates the garden command group.
func gardenCmd(ledger *ops.Ledger, db *sql.DB, cfg *config.Config) *cli.Command {
	countFlag := &cli.IntFlag{Name: "count", Aliases: []string{"c"}, Usage: "Completion count to evaluate (default: stored count)"}

	eligibleInput := func(c *cli.Context) ops.EligibleInput {
		input := ops.EligibleInput{Activity: joinArgs(c)}
		if c.IsSet("count") {
			n := c.Int("count")
			input.Count = &n
		}
		return input
	}

	return &cli.Command{
		Name:  "garden",
		Usage: "Inspect and arrange garden elements",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List garden elements with visibility and placement",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "activity", Aliases: []string{"a"}, Usage: "Filter by activity"},
					&cli.BoolFlag{Name: "visible-only", Usage: "Only revealed elements"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListGarden(c.Context, db, ledger.Catalog(), ops.GardenListInput{
						Activity:    c.String("activity"),
						VisibleOnly: c.Bool("visible-only"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "eligible",
				Usage:     "List element names offered at a count",
				ArgsUsage: "<activity>",
				Flags:     []cli.Flag{countFlag},
				Action: func(c *cli.Context) error {
					output, err := ops.GardenEligible(c.Context, ledger, ledger.Catalog(), eligibleInput(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "pick",
				Usage:     "Pick one eligible element at random",
				ArgsUsage: "<activity>",
				Flags:     []cli.Flag{countFlag},
				Action: func(c *cli.Context) error {
					picker := garden.NewSeededPicker(ledger.Catalog(), cfg.PickSeed)
					output, err := ops.GardenPick(c.Context, ledger, picker, ledger.Catalog(), eligibleInput(c))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "place",
				Usage:     "Store an element's canvas position and scale",
				ArgsUsage: "<activity> <element>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "x", Usage: "Canvas x"},
					&cli.Float64Flag{Name: "y", Usage: "Canvas y"},
					&cli.Float64Flag{Name: "scale", Value: 1, Usage: "Scale factor (> 0)"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return outputError(errors.NewInvalidRequest("place takes <activity> <element>"))
					}
					output, err := ledger.PlaceElement(c.Context, ops.PlaceInput{
						Activity: c.Args().Get(0),
						Element:  c.Args().Get(1),
						X:        c.Float64("x"),
						Y:        c.Float64("y"),
						Scale:    c.Float64("scale"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// resetCmd creates the reset command.
func resetCmd(ledger *ops.Ledger) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Clear every activity's weekday flags",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "if-due", Usage: "Only reset when a new week has started"},
		},
		Action: func(c *cli.Context) error {
			var (
				output *ops.ResetOutput
				err    error
			)
			if c.Bool("if-due") {
				output, err = ledger.ResetIfDue(c.Context, ledger.Now())
			} else {
				output, err = ledger.ResetAllWeeklyFlags(c.Context)
			}
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// debugResetCmd creates the debug-reset command.
func debugResetCmd(ledger *ops.Ledger) *cli.Command {
	return &cli.Command{
		Name:      "debug-reset",
		Usage:     "Zero one activity's count and weekday flags (garden unlocks are kept)",
		ArgsUsage: "<activity>",
		Action: func(c *cli.Context) error {
			rec, err := ledger.DebugReset(c.Context, joinArgs(c))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(rec)
		},
	}
}

func levelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "level", Aliases: []string{"l"}, Value: 1, Usage: "Level"},
		&cli.IntFlag{Name: "seq", Aliases: []string{"s"}, Value: 1, Usage: "Sequence within the level"},
	}
}

// promptCmd creates the prompt command.
func promptCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "prompt",
		Usage:     "Show the journaling prompt at a level and sequence",
		ArgsUsage: "<type>",
		Flags:     levelFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.NextPrompt(c.Context, db, ops.NextPromptInput{
				Type:  joinArgs(c),
				Level: c.Int("level"),
				Seq:   c.Int("seq"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// answerCmd creates the answer command.
func answerCmd(ledger *ops.Ledger) *cli.Command {
	return &cli.Command{
		Name:      "answer",
		Usage:     "Append a journal answer (reads the answer from stdin)",
		ArgsUsage: "<type>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "prompt-id", Aliases: []string{"p"}, Usage: "Id of the prompt being answered"},
			&cli.StringFlag{Name: "tab", Aliases: []string{"t"}, Usage: "Tab the answer belongs to"},
			&cli.StringFlag{Name: "activity", Aliases: []string{"a"}, Usage: "Related activity"},
			&cli.IntFlag{Name: "level", Aliases: []string{"l"}, Usage: "Prompt level"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("answer must be piped via stdin"))
			}
			text, err := readStdin()
			if err != nil {
				return outputError(err)
			}

			output, err := ledger.RecordAnswer(c.Context, ops.AnswerInput{
				Type:     joinArgs(c),
				PromptID: c.Int("prompt-id"),
				Tab:      c.String("tab"),
				Activity: c.String("activity"),
				Level:    c.Int("level"),
				Answer:   text,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

func sinceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "since", Usage: "Cut-off: unix seconds, YYYY-MM-DD or Nd (days ago)"},
		&cli.BoolFlag{Name: "this-week", Usage: "Only answers since Monday 00:00"},
	}
}

// resolveSince turns --since / --this-week into a unix cut-off.
func resolveSince(c *cli.Context, now time.Time) (int64, error) {
	if c.Bool("this-week") {
		if c.IsSet("since") {
			return 0, errors.NewInvalidRequest("--since and --this-week are mutually exclusive")
		}
		return activity.StartOfWeek(now).Unix(), nil
	}
	if s := c.String("since"); s != "" {
		since, err := parseSince(s, now)
		if err != nil {
			return 0, errors.NewInvalidRequest(err.Error())
		}
		return since, nil
	}
	return 0, nil
}

// summaryCmd creates the summary command.
func summaryCmd(ledger *ops.Ledger, db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Show answers joined with their prompts, grouped by tab",
		ArgsUsage: "<type>",
		Flags:     sinceFlags(),
		Action: func(c *cli.Context) error {
			since, err := resolveSince(c, ledger.Now())
			if err != nil {
				return outputError(err)
			}
			output, err := ops.WeeklySummary(c.Context, db, ops.SummaryInput{
				Type:  joinArgs(c),
				Since: since,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportSummaryCmd creates the export-summary command.
func exportSummaryCmd(ledger *ops.Ledger, db *sql.DB, cfg *config.Config) *cli.Command {
	flags := append(sinceFlags(),
		&cli.StringFlag{Name: "path", Usage: "Output file (default: ~/.seed/exports/<type>-summary-<timestamp>.<format>)"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "md|html (default: from --path, else md)"},
	)
	return &cli.Command{
		Name:      "export-summary",
		Usage:     "Write the journal summary to a Markdown or HTML file",
		ArgsUsage: "<type>",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			since, err := resolveSince(c, ledger.Now())
			if err != nil {
				return outputError(err)
			}
			output, err := ops.ExportSummary(c.Context, db, cfg, ops.ExportSummaryInput{
				Type:   joinArgs(c),
				Since:  since,
				Path:   c.String("path"),
				Format: ops.ExportFormat(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// factCmd creates the fact command.
func factCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fact",
		Usage:     "Show one random fact",
		ArgsUsage: "<type>",
		Action: func(c *cli.Context) error {
			output, err := ops.RandomFact(c.Context, db, joinArgs(c), nil)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// tipCmd creates the tip command.
func tipCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "tip",
		Usage:     "Show the tip at a level and sequence",
		ArgsUsage: "<type>",
		Flags:     levelFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.GetTip(c.Context, db, ops.TipInput{
				Type:  joinArgs(c),
				Level: c.Int("level"),
				Seq:   c.Int("seq"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var seedErr *errors.SeedError
	if stderrors.As(err, &seedErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", seedErr.Code, seedErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// joinArgs joins positional args so "seed complete Digital Detox" works unquoted.
func joinArgs(c *cli.Context) string {
	return strings.Join(c.Args().Slice(), " ")
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	return readStdinWithLimit(os.Stdin, maxStdinBytes)
}

// readStdinWithLimit reads at most limit bytes from r.
func readStdinWithLimit(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", limit))
	}
	return strings.TrimSpace(string(data)), nil
}

// parseSince parses a unix timestamp, a YYYY-MM-DD date in now's zone, or
// "Nd" (N days before now).
func parseSince(s string, now time.Time) (int64, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return now.AddDate(0, 0, -days).Unix(), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, now.Location()); err == nil {
		return t.Unix(), nil
	}
	unix, err := strconv.ParseInt(s, 10, 64)
	if err != nil || unix < 0 {
		return 0, fmt.Errorf("since must be unix seconds, YYYY-MM-DD or Nd, got %q", s)
	}
	return unix, nil
}
