package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"relcore/pkg/config"
	"relcore/pkg/expr"
	"relcore/pkg/export"
	"relcore/pkg/logging"
	"relcore/pkg/plan"
	"relcore/pkg/runner"
	"relcore/pkg/ui"
	"relcore/pkg/workbook"
)

var (
	version   = "0.1.0"
	buildDate = "dev"
)

// app carries the state shared by every command.
type app struct {
	cfgFile string
	cfg     *config.Config
	out     io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "relcore",
		Short: "Run relational queries from YAML workbooks",
		Long: `relcore evaluates query plans (filter, join, aggregate, window, sort,
project, limit) over the relations declared in a YAML workbook.

Run every query in a workbook:
  relcore run examples/orders.yaml

Browse the results interactively:
  relcore browse examples/orders.yaml`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")

	root.AddCommand(a.runCmd(), a.explainCmd(), a.browseCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "relcore %s (built %s)\n", version, buildDate)
		},
	})
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logging.Close(); err != nil {
		return err
	}
	return logging.Init(cfg.Logging())
}

// load reads the workbook and picks the requested queries, all of them when
// names is empty.
func (a *app) load(path string, names []string) (*workbook.Workbook, []*workbook.Query, error) {
	wb, err := workbook.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return wb, wb.Queries, nil
	}
	queries, err := wb.Select(names...)
	if err != nil {
		return nil, nil, err
	}
	return wb, queries, nil
}

func (a *app) runner(wb *workbook.Workbook) *runner.Runner {
	return runner.New(wb.Catalog, runner.Options{
		Parallelism:         a.cfg.Query.Parallelism,
		Timeout:             a.cfg.Query.Timeout,
		CaseInsensitiveLike: a.cfg.Query.CaseInsensitiveLike,
	})
}

func (a *app) runCmd() *cobra.Command {
	var (
		names   []string
		outDir  string
		format  string
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "run <workbook>",
		Short: "Execute workbook queries and print their results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Output.Format = format
			}
			if cmd.Flags().Changed("max-rows") {
				a.cfg.Output.MaxRows = maxRows
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			wb, queries, err := a.load(args[0], names)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			results, err := a.runner(wb).Run(ctx, queries)
			if err != nil {
				return err
			}
			return a.report(results, outDir)
		},
	}

	cmd.Flags().StringSliceVarP(&names, "query", "q", nil, "queries to run, reported in workbook order (default all)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for arrow output")
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTable, "output format: table or arrow")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "rows shown per table (0 = all)")
	return cmd
}

// report prints or writes every result and fails when any query failed.
func (a *app) report(results []*runner.Result, outDir string) error {
	heading := lipgloss.NewStyle().Bold(true)
	failed := 0

	for _, res := range results {
		fmt.Fprintln(a.out, heading.Render("== "+res.Query.Name+" =="))
		if res.Err != nil {
			failed++
			fmt.Fprintf(a.out, "error: %v\n\n", res.Err)
			continue
		}

		switch a.cfg.Output.Format {
		case config.FormatArrow:
			path := filepath.Join(outDir, res.Query.Name+".arrow")
			if err := export.WriteFile(path, res.Relation); err != nil {
				return fmt.Errorf("query %q: %w", res.Query.Name, err)
			}
			fmt.Fprintf(a.out, "wrote %d rows to %s\n\n", res.Relation.Len(), path)
		default:
			fmt.Fprintf(a.out, "%s\n\n", ui.RenderRelation(res.Relation, a.cfg.Output.MaxRows))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(results))
	}
	return nil
}

func (a *app) explainCmd() *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "explain <workbook>",
		Short: "Print the operator tree each query binds to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, queries, err := a.load(args[0], names)
			if err != nil {
				return err
			}

			var errs []string
			for _, q := range queries {
				fmt.Fprintf(a.out, "== %s ==\n", q.Name)
				tree, err := plan.Explain(q.Plan, wb.Catalog, expr.NewEnv(a.cfg.Query.CaseInsensitiveLike))
				if err != nil {
					errs = append(errs, q.Name)
					fmt.Fprintf(a.out, "error: %v\n\n", err)
					continue
				}
				fmt.Fprintln(a.out, tree)
			}
			if len(errs) > 0 {
				return fmt.Errorf("cannot bind %s", strings.Join(errs, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "query", "q", nil, "queries to explain (default all)")
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "browse <workbook>",
		Short: "Run workbook queries and browse the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, queries, err := a.load(args[0], names)
			if err != nil {
				return err
			}

			r := a.runner(wb)
			ctx := cmd.Context()
			results, err := r.Run(ctx, queries)
			if err != nil {
				return err
			}

			model := ui.NewModel(filepath.Base(args[0]), results, func(q *workbook.Query) *runner.Result {
				return r.RunOne(ctx, q)
			})
			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running browser: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&names, "query", "q", nil, "queries to run, reported in workbook order (default all)")
	return cmd
}
