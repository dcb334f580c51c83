package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/pulse/internal/config"
	"github.com/agenthands/pulse/internal/core/department"
	"github.com/agenthands/pulse/internal/core/people"
	"github.com/agenthands/pulse/internal/core/workflow"
	"github.com/agenthands/pulse/internal/loader"
)

var (
	dataPath   string
	configPath string
	mermaid    bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "analyze",
		Short: "Organizational activity graph analytics",
		Long:  "Analyze an activity dataset: department interaction structure or recurring workflows.",
	}
	root.PersistentFlags().StringVarP(&dataPath, "file", "f", "data.yaml", "path to the YAML dataset")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVar(&mermaid, "mermaid", false, "print mermaid diagrams instead of JSON")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(departmentsCmd(), workflowsCmd(), peopleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadConfig() *config.Config {
	if configPath == "" {
		return &config.Config{}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return &config.Config{}
	}
	return cfg
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func departmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "Analyze cross-department interaction structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			cfg := loadConfig()

			ds, err := loader.Load(dataPath, log)
			if err != nil {
				return err
			}

			a := department.NewAnalyzer(department.Config{
				MinInteractionCount: cfg.Analysis.MinInteractionCount,
				StrongPairThreshold: cfg.Analysis.StrongPairThreshold,
			}, log)
			report, err := a.Analyze(ds.Activities, ds.People)
			if err != nil {
				return err
			}

			if mermaid {
				fmt.Println(report.MermaidNetwork())
				return nil
			}
			return printJSON(map[string]any{
				"report":                 report,
				"collaboration_matrix":   report.CollaborationMatrix(),
				"collaboration_patterns": report.CollaborationPatterns(),
			})
		},
	}
}

func peopleCmd() *cobra.Command {
	var profilesDir string

	cmd := &cobra.Command{
		Use:   "people",
		Short: "Profile persons and their collaboration network",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			ds, err := loader.Load(dataPath, log)
			if err != nil {
				return err
			}

			pr := people.NewProfiler(log)
			persons := pr.ExtractPersons(ds.Activities, ds.People)
			metrics := pr.CollaborationNetwork(ds.People)
			clusters := pr.DetectTeamClusters(ds.People)

			if profilesDir != "" {
				if err := os.MkdirAll(profilesDir, 0o755); err != nil {
					return err
				}
				for _, p := range persons {
					stats := pr.AnalyzeActivities(p, ds.Activities)
					pr.EstimateExpertise(p, ds.Activities)
					m := metrics[p.ID]
					md := people.MarkdownProfile(p, stats, &m, ds.People)
					path := filepath.Join(profilesDir, p.ID+".md")
					if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
						return err
					}
				}
				fmt.Printf("wrote %d profiles to %s\n", len(persons), profilesDir)
				return nil
			}

			stats := make(map[string]people.ActivityStats, len(persons))
			for _, p := range persons {
				stats[p.ID] = pr.AnalyzeActivities(p, ds.Activities)
				pr.EstimateExpertise(p, ds.Activities)
			}
			return printJSON(map[string]any{
				"persons":       persons,
				"stats":         stats,
				"network":       metrics,
				"key_persons":   people.KeyPersons(metrics, 5),
				"team_clusters": clusters,
			})
		},
	}
	cmd.Flags().StringVar(&profilesDir, "profiles-dir", "", "write one markdown profile per person into this directory")
	return cmd
}

func workflowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "Mine recurring workflows and their bottlenecks",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			cfg := loadConfig()

			ds, err := loader.Load(dataPath, log)
			if err != nil {
				return err
			}

			a := workflow.NewAnalyzer(workflow.Config{
				MinPatternFrequency: cfg.Workflow.MinPatternFrequency,
				TimeWindowHours:     cfg.Workflow.TimeWindowHours,
			}, log)

			patterns := a.DetectPatterns(ds.Activities)
			workflows := a.BuildWorkflows(patterns, ds.People)
			bottlenecks := a.AnalyzeBottlenecks(workflows, ds.People)

			if mermaid {
				for _, wf := range workflows {
					fmt.Printf("%% %s\n%s\n\n", wf.Name, workflow.MermaidFlow(wf, ds.People))
				}
				return nil
			}
			return printJSON(map[string]any{
				"patterns":    patterns,
				"workflows":   workflows,
				"bottlenecks": bottlenecks,
			})
		},
	}
}
