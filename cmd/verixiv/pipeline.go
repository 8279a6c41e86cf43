package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verixiv/verixiv/internal/paper"
	"github.com/verixiv/verixiv/internal/pipeline"
)

var (
	pipelineK        int
	pipelineTextFile string
)

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().IntVarP(&pipelineK, "k", "k", pipeline.DefaultK, "Number of similar papers to score")
	pipelineCmd.Flags().StringVar(&pipelineTextFile, "text-file", "", "Read paper text from a file instead of extracting by id")
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [arxiv-id]",
	Short: "Run the full analysis pipeline once",
	Long: `Run the analysis pipeline for an arXiv paper and print the scored
result set as JSON.

The argument may be a bare arXiv id, an arxiv.org URL, or an arxiv:
form. With --text-file, the text is read locally and no id is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	var in pipeline.Input

	if pipelineTextFile != "" {
		data, err := os.ReadFile(pipelineTextFile)
		if err != nil {
			outputError("reading text file: %v", err)
			return err
		}
		in.PaperText = string(data)
	}

	if len(args) == 1 {
		id, ok := paper.ParseArxivID(args[0])
		if !ok {
			err := fmt.Errorf("not an arXiv id or URL: %s", args[0])
			outputError("%v", err)
			return err
		}
		in.PaperID = id
	}

	if in.PaperID == "" && in.PaperText == "" {
		err := fmt.Errorf("an arXiv id or --text-file is required")
		outputError("%v", err)
		return err
	}

	svcs, err := buildServices()
	if err != nil {
		outputError("%v", err)
		return err
	}
	defer svcs.close()

	result, err := svcs.orchestrator.Run(context.Background(), in, pipelineK)
	if err != nil {
		outputError("pipeline failed: %v", err)
		return err
	}

	return outputJSON(result)
}
