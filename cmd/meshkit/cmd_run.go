package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/polymesh/pkg/logging"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run <script.lisp>",
	Short: "Run a mesh script",
	Long: `Evaluates a Lisp mesh script against an empty mesh, prints a summary
and optionally writes the resulting mesh with its vertex positions.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the mesh to this file")
}

func runScript(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	app := NewApp(cfg)
	result := app.Evaluate(string(source))
	out := cmd.OutOrStdout()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintf(out, "%s: %s\n", args[0], e)
		}
		return fmt.Errorf("%s: %d error(s)", args[0], len(result.Errors))
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "%s: warning: %s\n", args[0], w)
	}

	m := result.Mesh
	fmt.Fprintf(out, "%s: %d vertices, %d edges, %d faces\n", args[0], m.VertexCount(), m.EdgeCount(), m.FaceCount())
	if result.Value != "" {
		fmt.Fprintf(out, "=> %s\n", result.Value)
	}
	logging.Debug("script evaluated", "path", args[0], "warnings", len(result.Warnings))

	if runOutput == "" {
		return nil
	}
	return app.Save(runOutput, m, result.Positions)
}
