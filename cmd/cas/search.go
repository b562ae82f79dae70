package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-archive-search/internal/render"
	"github.com/Zuo-Peng/chat-archive-search/internal/report"
	"github.com/Zuo-Peng/chat-archive-search/internal/search"
	"github.com/Zuo-Peng/chat-archive-search/internal/tui"
)

const maxSuggestions = 3

// searchRun is one executed query whose report has been written.
type searchRun struct {
	criteria    search.Criteria
	result      *search.Result
	warnings    []string
	suggestions []string
	reportPath  string
}

func (r *searchRun) outcome() *tui.Outcome {
	return &tui.Outcome{
		Matched:     r.result.Matched,
		Pattern:     r.criteria.Contains,
		ReportPath:  r.reportPath,
		Warnings:    r.warnings,
		Suggestions: r.suggestions,
	}
}

// runSearch builds criteria from in, queries the chats dir and writes the
// report to outPath.
func (a *app) runSearch(in search.Input, outPath string) (*searchRun, error) {
	c, warnings := search.BuildCriteria(in)
	for _, w := range warnings {
		a.logger.Debug("filter dropped", "reason", w)
	}

	res, err := search.Run(a.cfg.ChatsDir, c, a.logger)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	a.logger.Info("search done", "stats", res.Stats.String())

	run := &searchRun{criteria: c, result: res, warnings: warnings, reportPath: outPath}
	if c.Name != nil && len(res.Matched) == 0 {
		run.suggestions = search.SuggestNames(res.Messages, *c.Name, maxSuggestions)
	}

	if err := report.WriteFile(outPath, c, res.Matched, report.Options{MaxLinesListed: a.cfg.MaxLinesListed}); err != nil {
		return nil, err
	}
	return run, nil
}

func searchCmd(a *app) *cobra.Command {
	var in search.Input
	var criteriaPath, outPath string
	var preview, noTUI bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the text archives and write a grouped report",
		Long: `Search the text archives in the chats dir and write the matches, grouped by
file and sorted by timestamp, to the results file.

Every filter is optional; a blank filter matches anything. Wrap the --contains
text in double quotes to match it as a whole word:

  cas search --contains '"deploy"' --date 5/2/2026

With no filter flags and a terminal on stdout, an interactive form collects the
filters and the matches can be browsed after the report is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = a.cfg.ResultsPath
			}
			if criteriaPath != "" {
				saved, err := search.LoadInput(criteriaPath)
				if err != nil {
					return err
				}
				in = in.Merge(saved)
			}

			stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
			if in.IsZero() && stdoutTTY && !noTUI && !preview {
				return a.searchInteractive(cmd.OutOrStdout(), in, outPath)
			}

			run, err := a.runSearch(in, outPath)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			for _, w := range run.warnings {
				fmt.Fprintf(stderr, "Warning: %s\n", w)
			}
			printSuggestions(stderr, run)

			out := cmd.OutOrStdout()
			if preview {
				width := 0
				if stdoutTTY {
					if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
						width = w
					}
				}
				content, _ := render.Matches(run.result.Matched, render.Options{
					Width:   width,
					Color:   stdoutTTY,
					Pattern: run.criteria.Contains,
				})
				fmt.Fprint(out, content)
			}

			printDone(out, a.cfg.ChatsDir, run)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "Message date, d/m/y (e.g. 5/2/2026)")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name, exact and case-insensitive")
	cmd.Flags().StringVar(&in.Contains, "contains", "", `Content substring, or "word" for a whole word`)
	cmd.Flags().StringVar(&in.Exclude, "exclude", "", "Drop messages whose content contains this")
	cmd.Flags().StringVar(&in.HasAttachment, "has-attachment", "", "y or n")
	cmd.Flags().StringVar(&in.AttachmentExt, "ext", "", "Attachment extension (png, .pdf, ...)")
	cmd.Flags().StringVar(&criteriaPath, "criteria", "", "YAML file with saved filters; flags take precedence")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Report path (default results_path from config)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Also print the matches to stdout")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Never start the interactive form")

	return cmd
}

func (a *app) searchInteractive(out io.Writer, in search.Input, outPath string) error {
	a.detachStderr()

	var last *searchRun
	_, err := tui.Run(in, func(form search.Input) (*tui.Outcome, error) {
		run, err := a.runSearch(form, outPath)
		if err != nil {
			return nil, err
		}
		last = run
		return run.outcome(), nil
	})
	if err != nil {
		return err
	}
	if last == nil {
		return nil
	}
	printDone(out, a.cfg.ChatsDir, last)
	return nil
}

func printSuggestions(w io.Writer, run *searchRun) {
	if len(run.suggestions) == 0 {
		return
	}
	fmt.Fprintf(w, "No messages from %q. Did you mean: %s?\n",
		*run.criteria.Name, strings.Join(run.suggestions, ", "))
}

func printDone(w io.Writer, chatsDir string, run *searchRun) {
	fmt.Fprintln(w, "\n=== Done ===")
	fmt.Fprintf(w, "Scanned files in: %s\n", chatsDir)
	fmt.Fprintf(w, "Total messages read: %d\n", run.result.Stats.Read)
	fmt.Fprintf(w, "Matches: %d\n", run.result.Stats.Matched)
	fmt.Fprintf(w, "Wrote: %s\n", run.reportPath)
}
