package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"slidedeck/internal/library"
	"slidedeck/internal/slide"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Create and maintain shows",
	}

	showCmd.AddCommand(newShowListCommand(ctx))
	showCmd.AddCommand(newShowNewCommand(ctx))
	showCmd.AddCommand(newShowAddCommand(ctx))
	showCmd.AddCommand(newShowDeleteCommand(ctx))

	return showCmd
}

func newShowListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				shows, failures, err := lib.Shows.LoadAll()
				if err != nil {
					return err
				}
				slices.SortFunc(shows, func(a, b *slide.Show) int {
					return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
				})

				if jsonOutput {
					views := make([]showView, 0, len(shows))
					for _, s := range shows {
						views = append(views, newShowView(s))
					}
					return writeJSON(cmd, views)
				}

				printTable(cmd.OutOrStdout(), "No shows stored",
					[]string{"ID", "Name", "Slides", "Loop", "Tags", "Modified"},
					buildShowRows(shows),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				)
				if len(failures) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d show documents could not be read:\n", len(failures))
					fmt.Fprint(cmd.ErrOrStderr(), renderTable([]string{"File", "ID", "Error"}, buildItemErrorRows(failures), nil))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newShowNewCommand(ctx *commandContext) *cobra.Command {
	var (
		loop     bool
		slideIDs []string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a show, optionally seeded with slides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("show name is required")
			}
			return ctx.withLibrary(func(lib *library.Library) error {
				show := slide.NewShow(name)
				show.Loop = loop
				show.SetTags(tags...)
				for _, id := range slideIDs {
					if _, err := lib.Slides.Read(id); err != nil {
						return err
					}
					show.Append(id)
				}
				if err := lib.Shows.Create(show); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created show %s (%s) with %d slides\n", show.ID, show.Name, len(show.Assignments))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "Wrap to the first slide after the last one")
	cmd.Flags().StringSliceVar(&slideIDs, "slide", nil, "Slide to append (repeatable, in order)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag the show (repeatable)")
	return cmd
}

func newShowAddCommand(ctx *commandContext) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "add <show-id> <slide-id>",
		Short: "Add a slide to a show",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				a, err := lib.AddToShow(args[0], args[1], position)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added slide %s to show %s (assignment %s)\n", a.SlideID, args[0], a.ID)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&position, "at", -1, "Insert position (0-based); appends when negative")
	return cmd
}

func newShowDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete shows (their slides are kept)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				for _, id := range args {
					if err := lib.Shows.Delete(id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted show %s\n", id)
				}
				return nil
			})
		},
	}
}
