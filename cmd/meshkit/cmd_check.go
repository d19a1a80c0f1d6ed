package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/mesh"
)

var checkCmd = &cobra.Command{
	Use:   "check <file...>",
	Short: "Verify the consistency of mesh files",
	Long: `Reads each mesh file and runs the full connectivity checker on it.
Files are checked concurrently; the command fails if any file is unreadable
or inconsistent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

type checkReport struct {
	path       string
	err        error
	violations []mesh.Violation
}

func (r checkReport) ok() bool { return r.err == nil && len(r.violations) == 0 }

func runCheck(cmd *cobra.Command, args []string) error {
	app := NewApp(cfg)
	reports := make([]checkReport, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			reports[i] = checkFile(app, path)
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range reports {
		switch {
		case r.err != nil:
			fmt.Fprintf(out, "%s: %v\n", r.path, r.err)
		case len(r.violations) > 0:
			fmt.Fprintf(out, "%s: %d violation(s)\n", r.path, len(r.violations))
			for _, v := range r.violations {
				fmt.Fprintf(out, "  %s\n", v.Error())
			}
		default:
			fmt.Fprintf(out, "%s: ok\n", r.path)
		}
		if !r.ok() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(reports))
	}
	return nil
}

func checkFile(app *App, path string) checkReport {
	f, _, err := app.Load(path)
	if err != nil {
		return checkReport{path: path, err: err}
	}
	vs := f.Mesh.Check()
	logging.Debug("mesh checked", "path", path, "violations", len(vs))
	return checkReport{path: path, violations: vs}
}
