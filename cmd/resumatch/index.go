package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumatch/internal/domain"
	"resumatch/internal/extract"
	"resumatch/internal/index"
)

var indexDir string

var indexCmd = &cobra.Command{
	Use:   "index <file> [file ...]",
	Short: "Build a chunk index from documents and save it to disk",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		var docs []domain.Document
		for _, pattern := range args {
			matches, _ := filepath.Glob(pattern)
			if matches == nil {
				matches = []string{pattern}
			}
			for _, path := range matches {
				text, err := extract.Text(path)
				if err != nil {
					return fmt.Errorf("extracting %s: %w", path, err)
				}
				docs = append(docs, domain.Document{
					ID:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
					Source: path,
					Text:   text,
				})
			}
		}

		idx, metas, err := a.vec.BuildChunkIndex(cmd.Context(), docs)
		if err != nil {
			return err
		}

		dir := indexDir
		if dir == "" {
			dir = a.cfg.Storage.IndexDir
		}
		if err := index.Save(dir, idx, metas); err != nil {
			return fmt.Errorf("saving index: %w", err)
		}
		a.log.Info("index saved",
			zap.String("dir", dir),
			zap.Int("documents", len(docs)),
			zap.Int("chunks", idx.Size()),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d document(s), %d chunk(s) into %s\n", len(docs), idx.Size(), dir)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexDir, "out", "o", "", "index directory (defaults to storage.index_dir)")
	rootCmd.AddCommand(indexCmd)
}
