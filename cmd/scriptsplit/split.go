package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"script-split/internal/document"
	"script-split/internal/export"
	"script-split/internal/queue"
	"script-split/internal/splitter"
)

// remoteGrace is added to the smart split timeout when waiting on a worker.
const remoteGrace = 15 * time.Second

func newSplitCmd(s *session) *cobra.Command {
	var limit int
	var smart bool
	var format string
	var stats bool
	var remote bool

	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split a script file, or stdin, into chunks",
		Long: "Split a script into chunks of at most --limit characters.\n" +
			"Reads stdin when no file (or \"-\") is given. PDF input is converted to text.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := s.require()
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = deps.Config.DefaultLimit
			}
			opts := splitter.Options{Limit: limit, SmartSplit: smart}

			var res splitter.Result
			if remote {
				q, closeQueue, err := deps.ConnectQueue("scriptsplit")
				if err != nil {
					return err
				}
				defer closeQueue()
				ctx, cancel := context.WithTimeout(cmd.Context(), deps.Config.SmartSplitTimeout+remoteGrace)
				defer cancel()
				res, err = splitRemote(ctx, q, text, opts)
				if err != nil {
					return err
				}
			} else {
				res, err = deps.Splitter.Split(cmd.Context(), text, opts)
				if err != nil {
					return err
				}
			}

			if err := render(cmd.OutOrStdout(), f, res); err != nil {
				return err
			}
			if stats {
				printStats(cmd.ErrOrStderr(), res)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&limit, "limit", "l", 0, "Maximum characters per chunk (default DEFAULT_LIMIT)")
	fs.BoolVar(&smart, "smart", false, "Try the smart split provider before the algorithm")
	fs.StringVarP(&format, "format", "f", string(export.FormatText), "Output format: text, json, yaml")
	fs.BoolVar(&stats, "stats", false, "Print character, word and chunk counts to stderr")
	fs.BoolVar(&remote, "remote", false, "Send the script to a split worker over QUEUE_URL")

	return cmd
}

// readInput returns the text of the named file, or of stdin when args is
// empty or "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	name := "stdin"
	var content []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		name = filepath.Base(args[0])
		content, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", nil
	}
	return document.Extract(name, content)
}

// splitRemote hands the script to a worker and waits for its result.
func splitRemote(ctx context.Context, q queue.Queue, text string, opts splitter.Options) (splitter.Result, error) {
	payload, err := json.Marshal(map[string]any{
		"text":        text,
		"limit":       opts.Limit,
		"smart_split": opts.SmartSplit,
	})
	if err != nil {
		return splitter.Result{}, err
	}
	body, err := q.Request(ctx, queue.Task{Type: queue.TaskTypeSplit, Payload: payload, MaxAttempts: 1})
	if err != nil {
		return splitter.Result{}, fmt.Errorf("remote split: %w", err)
	}
	var res splitter.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return splitter.Result{}, fmt.Errorf("decode remote result: %w", err)
	}
	return res, nil
}

func render(w io.Writer, f export.Format, res splitter.Result) error {
	if f == export.FormatText {
		return export.Write(w, f, res.Chunks)
	}
	return export.Write(w, f, res)
}

func printStats(w io.Writer, res splitter.Result) {
	_, _ = fmt.Fprintf(w, "characters: %d\nwords: %d\nchunks: %d\nstrategy: %s\n",
		res.Stats.Characters, res.Stats.Words, res.Stats.Chunks, res.Strategy)
	if res.FallbackReason != "" {
		_, _ = fmt.Fprintf(w, "fallback: %s\n", res.FallbackReason)
	}
}
