package main

import (
	"fmt"

	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/pkg/chunker"
	"classroom-ai-be/pkg/extractor"

	"github.com/spf13/cobra"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [path]",
	Short: "Extract a file and print its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	text := extractor.NewFileExtractor(logger.NewNopLogger()).Extract(cmd.Context(), args[0])
	chunks := chunker.NewSentenceChunker().Split(text)

	out := cmd.OutOrStdout()
	if len(chunks) == 0 {
		warnColor.Fprintf(out, "%s: no text extracted\n", args[0])
		return nil
	}
	for i, c := range chunks {
		keyColor.Fprintf(out, "%4d ", i)
		fmt.Fprintln(out, c)
	}
	okColor.Fprintf(out, "%d chunks\n", len(chunks))
	return nil
}
