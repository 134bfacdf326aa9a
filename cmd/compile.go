// File: cmd/compile.go
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/drengskapur/projcompile/pkg/compile"
	"github.com/drengskapur/projcompile/pkg/config"
	"github.com/drengskapur/projcompile/pkg/render"
	humanize "github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var compileCmd = &cobra.Command{
	Use:   "compile [directory]",
	Short: "Compile project files into markdown, HTML or JSON documents",
	Long: `Compile walks the directory (default: the current directory), keeps the
text files that pass the filters and writes them to numbered output files
named after --output. With --limit, a new file is started whenever the next
file would push the current one past the limit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	f.StringP("output", "o", compile.DefaultOutput, "Output file name; the extension follows --format")
	f.String("format", "markdown", "Output format: markdown, html or json")
	f.StringSlice("include-ext", nil, "File extensions to include (e.g. .go,.md)")
	f.StringSlice("exclude-ext", nil, "File extensions to exclude (e.g. .exe,.dll)")
	f.StringSlice("exclude-dirs", nil, "Directory names to exclude (default .git,__pycache__,node_modules)")
	f.StringSlice("exclude-files", nil, "File names to exclude")
	f.StringSlice("pattern-include", nil, "File name globs to include (e.g. *.go,test_*.txt)")
	f.StringSlice("pattern-exclude", nil, "File name globs to exclude (e.g. *.log,temp_*)")
	f.StringSlice("ignore", nil, "Path globs to ignore, relative to the directory (e.g. build/,**/*.gen.go)")
	f.String("start-marker", render.DefaultMarkers().Start, "Marker placed before each file")
	f.String("end-marker", render.DefaultMarkers().End, "Marker placed after each file")
	f.Bool("no-metadata", false, "Leave file metadata out of the output")
	f.Int64("limit", 0, "Maximum bytes per output file (0 for no limit)")
	f.Int("workers", 0, "Number of concurrent workers (0 for one per CPU)")
	f.Bool("gitignore", false, "Also honour the .gitignore at the directory root")
	f.String("tokenizer", "words", "Token counter for the report: words or tiktoken")
	f.String("model", compile.DefaultTiktokenModel, "Model whose encoding tiktoken uses")

	for name, key := range map[string]string{
		"output":          "output",
		"format":          "format",
		"include-ext":     "include_ext",
		"exclude-ext":     "exclude_ext",
		"exclude-dirs":    "exclude_dirs",
		"exclude-files":   "exclude_files",
		"pattern-include": "pattern_include",
		"pattern-exclude": "pattern_exclude",
		"ignore":          "ignore",
		"start-marker":    "start_marker",
		"end-marker":      "end_marker",
		"no-metadata":     "no_metadata",
		"limit":           "limit",
		"workers":         "workers",
		"gitignore":       "gitignore",
		"tokenizer":       "tokenizer",
		"model":           "model",
	} {
		bindFlag(f, name, key)
	}

	RootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	s, err := config.Decode(settings)
	if err != nil {
		return err
	}
	if _, err := render.Strict(s.Format); err != nil {
		logger.Warn("Unknown format, using markdown", zap.String("format", s.Format))
	}

	opts := s.CompileOptions(root)
	opts.Tokens, err = compile.NewTokenCounter(s.Tokenizer, s.Model)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Processing files"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("file"),
			progressbar.OptionClearOnFinish())
		opts.Progress = func() { _ = bar.Add(1) }
	}

	res, err := compile.Compile(opts, logger)
	if bar != nil {
		_ = bar.Finish()
	}
	if res != nil {
		printReport(cmd.OutOrStdout(), res)
	}
	return err
}

func printReport(w io.Writer, res *compile.Result) {
	for _, o := range res.Outputs {
		fmt.Fprintf(w, "Generated '%s' - Size: %s (%d bytes), Tokens: %s\n",
			o.Path, humanize.Bytes(uint64(o.Size)), o.Size, humanize.Comma(int64(o.Tokens)))
	}
	fmt.Fprintf(w, "Files written: %d, failed: %d, binary skipped: %d\n", res.FilesWritten, res.FilesFailed, res.Skipped)
	fmt.Fprintf(w, "Total output size: %s (%d bytes)\n", humanize.Bytes(uint64(res.TotalSize)), res.TotalSize)
	fmt.Fprintf(w, "Total number of tokens in output files: %s\n", humanize.Comma(int64(res.TotalTokens)))
}
