package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"

	"slidedeck/internal/config"
	"slidedeck/internal/fileutil"
	"slidedeck/internal/format"
	"slidedeck/internal/library"
	"slidedeck/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import slides and shows from documents or zip archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) error {
				out := cmd.OutOrStdout()
				failed := 0
				for _, arg := range args {
					source, err := config.ExpandPath(arg)
					if err != nil {
						return err
					}
					result, err := lib.Import(source)
					if err != nil {
						if len(args) == 1 {
							return err
						}
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", arg, err)
						failed++
						continue
					}
					renderImportResult(out, arg, result)
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d sources could not be imported", failed, len(args))
				}
				return nil
			})
		},
	}
}

func renderImportResult(out io.Writer, source string, result *library.ImportResult) {
	fmt.Fprintf(out, "%s: %d created, %d updated (%d slides, %d shows)\n",
		source, result.Created(), result.Updated(),
		result.Slides.Imported(), result.Shows.Imported())
	if len(result.Warnings) > 0 {
		fmt.Fprint(out, renderTable([]string{"Entry", "Warning"}, buildWarningRows(result.Warnings), nil))
	}
	if len(result.Errors) > 0 {
		fmt.Fprint(out, renderTable([]string{"Entry", "ID", "Error"}, buildItemErrorRows(result.Errors), nil))
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		outPath    string
		formatName string
		toStdout   bool
		withSlides bool
	)

	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export slides and shows to a zip archive",
		Long: "Export writes the named slides and shows (everything when no id is given) " +
			"into a zip archive. With --stdout a single document is written to standard output instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := format.ParseFormat(formatName)
			if !ok {
				return &store.Error{Op: "export", Err: fmt.Errorf("%w: %q", store.ErrUnknownFormat, formatName)}
			}
			if toStdout {
				if len(args) != 1 {
					return errors.New("--stdout exports exactly one document")
				}
				return ctx.withLibrary(func(lib *library.Library) error {
					return exportSingle(cmd.OutOrStdout(), lib, f, args[0])
				})
			}
			if strings.TrimSpace(outPath) == "" {
				return errors.New("--out is required unless --stdout is set")
			}
			target, err := config.ExpandPath(outPath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			return ctx.withLibrary(func(lib *library.Library) error {
				var result *store.ExportResult
				err := fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
					zw := zip.NewWriter(w)
					res, err := lib.Export(zw, library.ExportOptions{Format: f, IDs: args, WithSlides: withSlides})
					if err != nil {
						return err
					}
					result = res
					return zw.Close()
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				size := "?"
				if info, statErr := os.Stat(target); statErr == nil {
					size = humanize.IBytes(uint64(info.Size()))
				}
				fmt.Fprintf(out, "Exported %d documents to %s (%s)\n", len(result.Exported), target, size)
				if len(result.Errors) > 0 {
					fmt.Fprint(out, renderTable([]string{"Entry", "ID", "Error"}, buildItemErrorRows(result.Errors), nil))
					return fmt.Errorf("%d documents could not be exported", len(result.Errors))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination zip archive")
	cmd.Flags().StringVarP(&formatName, "format", "f", string(format.Native), "Document format")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write a single document to stdout")
	cmd.Flags().BoolVar(&withSlides, "with-slides", true, "Include the slides played by exported shows")
	return cmd
}

func exportSingle(w io.Writer, lib *library.Library, f format.Format, id string) error {
	if ok, err := lib.Slides.Exists(id); err != nil {
		return err
	} else if ok {
		s, err := lib.Slides.Read(id)
		if err != nil {
			return err
		}
		return lib.Slides.Export(w, f, s)
	}
	show, err := lib.Shows.Read(id)
	if err != nil {
		return err
	}
	return lib.Shows.Export(w, f, show)
}
