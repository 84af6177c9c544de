package main

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"slidedeck/internal/config"
	"slidedeck/internal/library"
	"slidedeck/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show environment checks and library contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			status := newStatusWriter(cmd.OutOrStdout())

			results := preflight.RunAll(cmd.Context(), cfg)
			status.section("System Checks")
			for _, r := range results {
				if r.Passed {
					status.line(r.Name, statusOK, r.Detail)
				} else {
					status.line(r.Name, statusError, r.Detail)
				}
			}

			status.section("Library")
			if lockBusy(results) {
				status.line("Contents", statusInfo, "Unavailable while another process holds the library")
				return nil
			}
			return ctx.withLibrary(func(lib *library.Library) error {
				summary, err := lib.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				writeSummary(status, summary, cfg.Catalog.Enabled)
				return nil
			})
		},
	}
}

func lockBusy(results []preflight.Result) bool {
	return slices.ContainsFunc(results, func(r preflight.Result) bool {
		return r.Name == preflight.LibraryLockCheck && !r.Passed
	})
}

func writeSummary(status *statusWriter, s library.Summary, catalogEnabled bool) {
	status.line(countLine("Slides", s.Slides, len(s.SlideFailures)))
	status.line(countLine("Shows", s.Shows, len(s.ShowFailures)))
	if !catalogEnabled {
		status.line("Catalog", statusWarn, "Disabled")
		return
	}
	indexed := s.Catalogued[config.SlidesKind] + s.Catalogued[config.ShowsKind]
	stored := s.Slides + s.Shows
	if indexed != stored {
		status.line("Catalog", statusWarn, fmt.Sprintf("%s of %s documents indexed (run 'slidedeck catalog rebuild')",
			humanize.Comma(int64(indexed)), humanize.Comma(int64(stored))))
		return
	}
	status.line("Catalog", statusOK, fmt.Sprintf("%s documents indexed", humanize.Comma(int64(indexed))))
}

func countLine(label string, count, failures int) (string, statusKind, string) {
	message := humanize.Comma(int64(count))
	if failures == 0 {
		return label, statusOK, message
	}
	return label, statusWarn, fmt.Sprintf("%s (%d unreadable)", message, failures)
}
