package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resumatch/internal/extract"
	"resumatch/internal/service"
)

var matchTopK int

var matchCmd = &cobra.Command{
	Use:   "match <resume-file> <job-file> [job-file ...]",
	Short: "Score a resume against one or more job descriptions",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		jobTexts := make([]string, 0, len(args)-1)
		for _, path := range args[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading job file %s: %w", path, err)
			}
			jobTexts = append(jobTexts, string(data))
		}

		explainer, err := buildExplainer(cmd, a.cfg)
		if err != nil {
			return err
		}
		analyzer := service.NewAnalyzer(extract.Text, a.vec, explainer, a.log)

		report, err := analyzer.Analyze(cmd.Context(), service.AnalyzeRequest{
			ResumePath: args[0],
			JobTexts:   jobTexts,
			TopK:       matchTopK,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if report.ResumeName != "" {
			fmt.Fprintf(out, "Candidate: %s\n", report.ResumeName)
		}
		if len(report.ResumeSkills) > 0 {
			fmt.Fprintf(out, "Resume skills: %s\n", strings.Join(report.ResumeSkills, ", "))
		}
		fmt.Fprintln(out)
		for rank, m := range report.Matches {
			fmt.Fprintf(out, "%d. %s (%s)  %d%%  score=%.3f\n",
				rank+1, m.JobID, args[1+m.JobIndex], m.MatchPercentage, m.Score)
			if len(m.MatchingSkills) > 0 {
				fmt.Fprintf(out, "   matching: %s\n", strings.Join(m.MatchingSkills, ", "))
			}
			if len(m.MissingSkills) > 0 {
				fmt.Fprintf(out, "   missing:  %s\n", strings.Join(m.MissingSkills, ", "))
			}
			fmt.Fprintf(out, "   %s\n\n", m.Explanation)
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().IntVarP(&matchTopK, "top", "k", 0, "limit output to the best K jobs (0 = all)")
	rootCmd.AddCommand(matchCmd)
}
