package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resumatch/internal/index"
	"resumatch/internal/retriever"
)

var (
	searchDir  string
	searchTopK int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query a saved chunk index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		dir := searchDir
		if dir == "" {
			dir = a.cfg.Storage.IndexDir
		}
		idx, metas, err := index.Load(dir)
		if err != nil {
			return fmt.Errorf("loading index from %s: %w", dir, err)
		}

		query := strings.Join(args, " ")
		results, err := retriever.Retrieve(cmd.Context(), query, idx, metas, searchTopK, a.enc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results.")
			return nil
		}
		for rank, r := range results {
			fmt.Fprintf(out, "%d. %s (%s) chunk %d  score=%.3f\n",
				rank+1, r.Meta.DocID, r.Meta.Source, r.Meta.ChunkIndex, r.Score)
			fmt.Fprintf(out, "   %s\n\n", r.Meta.Preview)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchDir, "index", "i", "", "index directory (defaults to storage.index_dir)")
	searchCmd.Flags().IntVarP(&searchTopK, "top", "k", 5, "number of results")
	rootCmd.AddCommand(searchCmd)
}
