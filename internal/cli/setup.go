package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dustin/partsrec/internal/envcheck"
	"github.com/dustin/partsrec/internal/layout"
)

func setupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the project directory structure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.layout()
			if err != nil {
				return err
			}
			if err := l.MaterializeAll(); err != nil {
				return err
			}

			appLogger, err := opts.logger(l)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, dir := range l.Dirs()[1:] {
				fmt.Fprintf(out, "created %s\n", relPath(l, dir))
			}
			appLogger.Info("Project directories created under " + l.Root())
			return nil
		},
	}
}

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the project structure and data files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := opts.layout()
			if err != nil {
				return err
			}

			report := envcheck.Run(l, opts.store(l))

			out := cmd.OutOrStdout()
			for _, section := range report.Sections {
				fmt.Fprintf(out, "%s:\n", section.Title)
				for _, res := range section.Results {
					mark := "ok  "
					if !res.OK {
						mark = "FAIL"
					}
					if res.Detail != "" {
						fmt.Fprintf(out, "  [%s] %s (%s)\n", mark, res.Name, res.Detail)
					} else {
						fmt.Fprintf(out, "  [%s] %s\n", mark, res.Name)
					}
				}
			}

			if !report.Passed() {
				fmt.Fprintln(out, "Run 'partsrec setup' to create missing directories")
				return fmt.Errorf("%d checks failed", report.Failures())
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func relPath(l *layout.Layout, path string) string {
	rel, err := filepath.Rel(l.Root(), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
