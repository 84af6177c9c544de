package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"slidedeck/internal/catalog"
	"slidedeck/internal/config"
	"slidedeck/internal/library"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		kind       string
		tag        string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search [term...]",
		Short: "Search slides and shows by name, text, or tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", config.SlidesKind, config.ShowsKind:
			default:
				return fmt.Errorf("--kind must be %q or %q", config.SlidesKind, config.ShowsKind)
			}
			query := catalog.Query{
				Text:  strings.Join(args, " "),
				Kind:  kind,
				Tag:   tag,
				Limit: limit,
			}
			return ctx.withLibrary(func(lib *library.Library) error {
				entries, err := lib.Search(cmd.Context(), query)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newEntryViews(entries))
				}
				printTable(cmd.OutOrStdout(), "No matches",
					[]string{"Kind", "ID", "Name", "Tags", "Modified"},
					buildEntryRows(entries), nil)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to slides or shows")
	cmd.Flags().StringVar(&tag, "tag", "", "Require an exact tag")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newMediaCommand(ctx *commandContext) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Inspect media references",
	}

	var jsonOutput bool
	refsCmd := &cobra.Command{
		Use:   "refs <media-id>",
		Short: "List the slides that use a media item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				refs, err := lib.MediaReferences(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newEntryViews(refs))
				}
				printTable(cmd.OutOrStdout(), fmt.Sprintf("No slides reference %s", args[0]),
					[]string{"Kind", "ID", "Name", "Tags", "Modified"},
					buildEntryRows(refs), nil)
				return nil
			})
		},
	}
	refsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	mediaCmd.AddCommand(refsCmd)
	return mediaCmd
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain the search catalog",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the search catalog from the stored documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				result, err := lib.RebuildCatalog(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Catalog rebuilt: %s slides, %s shows\n",
					humanize.Comma(int64(result.Slides)), humanize.Comma(int64(result.Shows)))
				if len(result.Failures) > 0 {
					fmt.Fprintf(out, "%d documents could not be read:\n", len(result.Failures))
					fmt.Fprint(out, renderTable([]string{"File", "ID", "Error"}, buildItemErrorRows(result.Failures), nil))
				}
				return nil
			})
		},
	})

	return catalogCmd
}
