package main

import (
	"errors"
	"fmt"
	"time"

	"classroom-ai-be/internal/dto"
	"classroom-ai-be/pkg/rag/retriever"
	"classroom-ai-be/pkg/vectorindex"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build, inspect and invalidate document indexes",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [file-id] [path]",
	Short: "Build the index for a lesson file",
	Args:  cobra.ExactArgs(2),
	RunE:  runIndexBuild,
}

var indexInspectCmd = &cobra.Command{
	Use:   "inspect [key]",
	Short: "Show a persisted index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexInspect,
}

var indexInvalidateCmd = &cobra.Command{
	Use:   "invalidate [key]",
	Short: "Delete a persisted index so it is rebuilt on next use",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexInvalidate,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded indexes",
	Args:  cobra.NoArgs,
	RunE:  runIndexList,
}

// previewChunks is how many chunks inspect prints.
var previewChunks int

func init() {
	indexInspectCmd.Flags().IntVarP(&previewChunks, "chunks", "n", 3, "Number of chunks to preview")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexInspectCmd)
	indexCmd.AddCommand(indexInvalidateCmd)
	indexCmd.AddCommand(indexListCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	ix, err := openIndexing()
	if err != nil {
		return err
	}
	defer ix.Close()

	started := time.Now()
	idx, err := ix.Retriever.EnsureIndex(cmd.Context(), retriever.Document{Key: args[0], Path: args[1]})
	if err != nil {
		return err
	}

	okColor.Fprintf(cmd.OutOrStdout(), "index %s ready: %d chunks, dimension %d (%s)\n",
		args[0], idx.Len(), idx.Dimension(), time.Since(started).Round(time.Millisecond))
	return nil
}

func runIndexInspect(cmd *cobra.Command, args []string) error {
	ix, err := openIndexing()
	if err != nil {
		return err
	}
	defer ix.Close()

	idx, status, err := ix.Store.Load(cmd.Context(), args[0])
	out := cmd.OutOrStdout()
	switch status {
	case vectorindex.StatusLoaded:
	case vectorindex.StatusCorrupt:
		warnColor.Fprintf(out, "index %s is corrupt: %v\n", args[0], err)
		return nil
	default:
		if err != nil {
			return err
		}
		warnColor.Fprintf(out, "index %s does not exist\n", args[0])
		return nil
	}

	keyColor.Fprintf(out, "%s\n", args[0])
	fmt.Fprintf(out, "  chunks:    %d\n", idx.Len())
	fmt.Fprintf(out, "  dimension: %d\n", idx.Dimension())
	for i, chunk := range idx.Chunks() {
		if i >= previewChunks {
			break
		}
		fmt.Fprintf(out, "  [%d] %s\n", i, chunk)
	}
	return nil
}

func runIndexInvalidate(cmd *cobra.Command, args []string) error {
	ix, err := openIndexing()
	if err != nil {
		return err
	}
	defer ix.Close()

	if err := ix.Retriever.Invalidate(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, vectorindex.ErrInvalidKey) {
			return fmt.Errorf("invalid key %q", args[0])
		}
		return err
	}
	okColor.Fprintf(cmd.OutOrStdout(), "index %s invalidated\n", args[0])
	return nil
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	ix, err := openIndexing()
	if err != nil {
		return err
	}
	defer ix.Close()

	rows, err := ix.Recorder.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		warnColor.Fprintln(out, "no indexes recorded")
		return nil
	}
	for _, row := range rows {
		built := row.CreatedAt
		if row.UpdatedAt != nil {
			built = *row.UpdatedAt
		}
		keyColor.Fprintf(out, "%-12s", row.DocumentKey)
		fmt.Fprintf(out, " chunks=%-5d dim=%-5d built=%s\n", row.ChunkCount, row.Dimension, built.Format(dto.TimeLayout))
	}
	return nil
}
