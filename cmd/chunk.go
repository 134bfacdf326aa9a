// File: cmd/chunk.go

package cmd

import (
	"fmt"

	"github.com/drengskapur/projcompile/pkg/chunk"
	"github.com/drengskapur/projcompile/pkg/config"
	"github.com/spf13/cobra"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split a codebase into token-bounded chunks for an LLM",
	Long: `Chunk analyzes the codebase, writes analysis_summary.json and groups the
files, smallest first, into chunk_N.md documents that each fit the token
limit of the named LLM. The limit comes from LLM_TOKEN_LIMIT_<NAME>, the
token_limits section of the config file, or defaults to 4000.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		llm := settings.GetString("llm")
		opts := chunk.Options{
			Codebase:  settings.GetString("codebase"),
			OutputDir: settings.GetString("output_dir"),
			Limit:     config.TokenLimit(settings, llm, logger),
		}

		report, err := chunk.Run(opts, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Analyzed %d files, summary saved to '%s'\n", report.Files, report.Summary)
		for _, p := range report.Chunks {
			fmt.Fprintf(out, "Generated '%s'\n", p)
		}
		return nil
	},
}

func init() {
	f := chunkCmd.Flags()
	f.String("llm", "", "Target LLM name, used to look up its token limit (e.g. gpt4, claude)")
	f.String("codebase", "", "Path to the codebase directory")
	f.String("output-dir", "", "Directory to save the chunk documents and summary")
	_ = chunkCmd.MarkFlagRequired("llm")
	_ = chunkCmd.MarkFlagRequired("codebase")
	_ = chunkCmd.MarkFlagRequired("output-dir")

	bindFlag(f, "llm", "llm")
	bindFlag(f, "codebase", "codebase")
	bindFlag(f, "output-dir", "output_dir")

	RootCmd.AddCommand(chunkCmd)
}
