package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"slidedeck/internal/library"
	"slidedeck/internal/slide"
)

const (
	defaultSlideWidth  = 1920
	defaultSlideHeight = 1080
)

func newSlideCommand(ctx *commandContext) *cobra.Command {
	slideCmd := &cobra.Command{
		Use:   "slide",
		Short: "Create, inspect and maintain slides",
	}

	slideCmd.AddCommand(newSlideListCommand(ctx))
	slideCmd.AddCommand(newSlideShowCommand(ctx))
	slideCmd.AddCommand(newSlideNewCommand(ctx))
	slideCmd.AddCommand(newSlideCopyCommand(ctx))
	slideCmd.AddCommand(newSlideDeleteCommand(ctx))
	slideCmd.AddCommand(newSlideFitCommand(ctx))
	slideCmd.AddCommand(newSlideTagCommand(ctx))

	return slideCmd
}

func newSlideListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored slides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				slides, failures, err := lib.Slides.LoadAll()
				if err != nil {
					return err
				}
				if tag != "" {
					slides = slices.DeleteFunc(slides, func(s *slide.Slide) bool {
						return !slices.Contains(s.Tags, tag)
					})
				}
				slices.SortFunc(slides, func(a, b *slide.Slide) int {
					return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
				})

				if jsonOutput {
					views := make([]slideView, 0, len(slides))
					for _, s := range slides {
						views = append(views, newSlideView(s))
					}
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				printTable(out, "No slides stored",
					[]string{"ID", "Name", "Size", "Components", "Time", "Tags", "Modified"},
					buildSlideRows(slides),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
				)
				if len(failures) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "%d slide documents could not be read:\n", len(failures))
					fmt.Fprint(cmd.ErrOrStderr(), renderTable([]string{"File", "ID", "Error"}, buildItemErrorRows(failures), nil))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&tag, "tag", "", "Only list slides carrying this tag")
	return cmd
}

func newSlideShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show slide details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				s, err := lib.Slides.Read(args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newSlideView(s))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:         %s\n", s.ID)
				fmt.Fprintf(out, "Name:       %s\n", s.Name)
				fmt.Fprintf(out, "Size:       %s\n", formatSize(s.Bounds.Width, s.Bounds.Height))
				fmt.Fprintf(out, "Time:       %s (total %s)\n", formatDuration(s.Time), formatDuration(s.TotalTime()))
				fmt.Fprintf(out, "Tags:       %s\n", formatTags(s.Tags))
				fmt.Fprintf(out, "Media:      %s\n", formatTags(s.ReferencedMedia()))
				fmt.Fprintf(out, "Modified:   %s (%s)\n", s.ModifiedAt.Local().Format(time.DateTime), formatAge(s.ModifiedAt))
				if s.Thumbnail != "" {
					fmt.Fprintf(out, "Thumbnail:  %s\n", s.Thumbnail)
				}
				printTable(out, "No components",
					[]string{"#", "Name", "Kind", "Position", "Size", "Detail"},
					buildComponentRows(s),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSlideNewCommand(ctx *commandContext) *cobra.Command {
	var (
		width, height float64
		textValue     string
		tags          []string
		display       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty slide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("slide name is required")
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid slide size %sx%s", trimFloat(width), trimFloat(height))
			}
			return ctx.withLibrary(func(lib *library.Library) error {
				s := slide.New(name, width, height)
				if display > 0 {
					s.Time = display
				}
				s.SetTags(tags...)
				if text := strings.TrimSpace(textValue); text != "" {
					bounds := slide.Rect{X: width * 0.05, Y: height * 0.1, Width: width * 0.9, Height: height * 0.8}
					s.Add(slide.NewComponent("text", bounds, &slide.TextBody{
						Text: text,
						Style: slide.TextStyle{
							Font:   slide.Font{Family: "Sans", Size: height / 12},
							Fill:   slide.RGBA(1, 1, 1, 1),
							HAlign: slide.AlignCenter,
							Wrap:   true,
						},
					}))
				}
				if err := lib.Slides.Create(s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created slide %s (%s)\n", s.ID, s.Name)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&width, "width", defaultSlideWidth, "Slide width")
	cmd.Flags().Float64Var(&height, "height", defaultSlideHeight, "Slide height")
	cmd.Flags().StringVar(&textValue, "text", "", "Add a centered text component")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag the slide (repeatable)")
	cmd.Flags().DurationVar(&display, "time", 0, "Display time before auto-advance (0 waits for the operator)")
	return cmd
}

func newSlideCopyCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Duplicate a slide under a new identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				source, err := lib.Slides.Read(args[0])
				if err != nil {
					return err
				}
				dup := source.Duplicate()
				dup.Name = strings.TrimSpace(name)
				if dup.Name == "" {
					dup.Name = source.Name + " (copy)"
				}
				if err := lib.Slides.Create(dup); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied slide %s to %s (%s)\n", source.ID, dup.ID, dup.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the copy")
	return cmd
}

func newSlideDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete slides and detach them from every show",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				out := cmd.OutOrStdout()
				for _, id := range args {
					updated, err := lib.DeleteSlide(id)
					if err != nil {
						return err
					}
					if updated > 0 {
						fmt.Fprintf(out, "Deleted slide %s (removed from %d shows)\n", id, updated)
						continue
					}
					fmt.Fprintf(out, "Deleted slide %s\n", id)
				}
				return nil
			})
		},
	}
}

func newSlideFitCommand(ctx *commandContext) *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "fit <id>",
		Short: "Resize a slide and scale its components proportionally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid target size %sx%s", trimFloat(width), trimFloat(height))
			}
			return ctx.withLibrary(func(lib *library.Library) error {
				var before string
				s, err := lib.Slides.Modify(args[0], func(s *slide.Slide) error {
					before = formatSize(s.Bounds.Width, s.Bounds.Height)
					s.Fit(width, height)
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Resized slide %s from %s to %s\n", s.ID, before, formatSize(width, height))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&width, "width", defaultSlideWidth, "Target width")
	cmd.Flags().Float64Var(&height, "height", defaultSlideHeight, "Target height")
	return cmd
}

func newSlideTagCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> [tag...]",
		Short: "Replace the tags of a slide",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				s, err := lib.Slides.Modify(args[0], func(s *slide.Slide) error {
					s.SetTags(args[1:]...)
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tagged slide %s: %s\n", s.ID, formatTags(s.Tags))
				return nil
			})
		},
	}
}
