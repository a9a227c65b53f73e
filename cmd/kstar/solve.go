package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ronuchit/kstar/internal/heuristic"
	"github.com/ronuchit/kstar/internal/landmark"
	"github.com/ronuchit/kstar/internal/observability"
	"github.com/ronuchit/kstar/internal/search"
	"github.com/ronuchit/kstar/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

var solveCmd = &cobra.Command{
	Use:   "solve <task.yaml>",
	Short: "Solve a planning task with the landmark-count heuristic",
	Long: `Solve loads a grounded planning task from a YAML file, builds the
goal-fact landmark graph, and runs greedy best-first search guided by the
landmark-count heuristic.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger := observability.NewLogger(os.Stderr, cfg.Log.Level)

	tk, err := task.LoadFile(args[0])
	if err != nil {
		return err
	}

	graph, err := landmark.FromGoals(tk)
	if err != nil {
		return err
	}

	eval, err := heuristic.New(tk, graph, heuristic.Config{
		Admissible:                  cfg.Heuristic.Admissible,
		Optimal:                     cfg.Heuristic.Optimal,
		PreferredOperators:          cfg.Heuristic.PreferredOperators,
		ReasonableOrders:            cfg.Heuristic.ReasonableOrders,
		ConditionalEffectsSupported: cfg.Heuristic.ConditionalEffectsSupported,
		Logger:                      logger,
	})
	if err != nil {
		return err
	}

	driver := search.New(tk, eval, search.Options{
		MaxExpansions: cfg.Search.MaxExpansions,
		Logger:        logger,
	})

	res, err := driver.Run(cmd.Context())
	if err != nil {
		return err
	}

	renderResult(cmd, tk, res)
	if !res.Solved {
		return fmt.Errorf("task %q is unsolvable", tk.Name)
	}
	return nil
}

func renderResult(cmd *cobra.Command, tk *task.Task, res search.Result) {
	if globalFlags.Quiet {
		return
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Task: %s", tk.Name)))
	b.WriteByte('\n')
	if res.Solved {
		names := make([]string, len(res.Plan))
		for i, id := range res.Plan {
			names[i] = tk.Operator(id).Name
		}
		b.WriteString(labelStyle.Render("Plan:      "))
		b.WriteString(valueStyle.Render(strings.Join(names, " -> ")))
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("Cost:      "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d", res.Cost)))
		b.WriteByte('\n')
	} else {
		b.WriteString(failStyle.Render("No solution exists"))
		b.WriteByte('\n')
	}
	b.WriteString(labelStyle.Render("Expanded:  "))
	b.WriteString(fmt.Sprintf("%d", res.Expanded))
	b.WriteByte('\n')
	b.WriteString(labelStyle.Render("Evaluated: "))
	b.WriteString(fmt.Sprintf("%d", res.Evaluated))
	b.WriteByte('\n')
	cmd.Println(b.String())
}
