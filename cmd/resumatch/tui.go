package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"resumatch/internal/extract"
	"resumatch/internal/service"
	"resumatch/internal/store"
	"resumatch/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <resume-file> [job-file ...]",
	Short: "Interactive match dashboard for one resume",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		explainer, err := buildExplainer(cmd, a.cfg)
		if err != nil {
			return err
		}
		analyzer := service.NewAnalyzer(extract.Text, a.vec, explainer, a.log)

		jobs := make([]string, 0, len(args)-1)
		for _, path := range args[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading job file %s: %w", path, err)
			}
			jobs = append(jobs, string(data))
		}
		// stored postings join the preloaded set
		if docs, err := store.Open(a.cfg.Storage.DocumentsPath, a.log); err == nil {
			for _, j := range docs.ListJobs() {
				jobs = append(jobs, j.RawText)
			}
		}

		m := tui.New(analyzer, args[0], jobs)
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
