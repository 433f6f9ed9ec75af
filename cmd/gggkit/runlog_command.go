package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gggkit/internal/runlog"
)

func newRunlogCommand(ctx *commandContext) *cobra.Command {
	runlogCmd := &cobra.Command{
		Use:   "runlog",
		Short: "Inspect and rewrite GGG runlogs",
	}

	runlogCmd.AddCommand(newRunlogSynthCommand(ctx))
	runlogCmd.AddCommand(newRunlogFieldsCommand(ctx))
	runlogCmd.AddCommand(newRunlogColumnCommand(ctx))

	return runlogCmd
}

func newRunlogSynthCommand(ctx *commandContext) *cobra.Command {
	var (
		v0, v1, deltaNu float64
		snr             int64
		suffix          string
		output          string
		assignments     []string
		workers         int
		jsonOutput      bool
	)

	cmd := &cobra.Command{
		Use:   "synth <runlog>...",
		Short: "Write synthetic copies of runlogs",
		Long: `Rewrite every record of each runlog with the synthetic override policy
(BPW, POINTER, APF, DELTA_NU, IFIRST, ILAST, SNR) plus any --set columns.
Each x.grl is written next to its input as x_syn.grl unless --out is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if output != "" && len(args) > 1 {
				return errors.New("--out accepts a single input runlog")
			}

			policy := runlog.PolicyFromConfig(cfg.Runlog)
			flags := cmd.Flags()
			if flags.Changed("v0") {
				policy.V0 = v0
			}
			if flags.Changed("v1") {
				policy.V1 = v1
			}
			if flags.Changed("dnu") {
				policy.DeltaNu = deltaNu
			}
			if flags.Changed("snr") {
				policy.SNR = snr
			}
			if err := policy.Validate(); err != nil {
				return fmt.Errorf("synthetic policy: %w", err)
			}
			ov := policy.Overrides()
			for _, assignment := range assignments {
				name, value, err := runlog.ParseAssignment(assignment)
				if err != nil {
					return err
				}
				ov.Set(name, value)
			}

			if !flags.Changed("suffix") {
				suffix = cfg.Runlog.OutputSuffix
			}
			if strings.ContainsAny(suffix, `/\`) {
				return fmt.Errorf("suffix %q must not contain a path separator", suffix)
			}
			if !flags.Changed("workers") {
				workers = cfg.Spectrum.Workers
			}

			jobs := make([]runlog.Job, len(args))
			for i, input := range args {
				out := output
				if out == "" {
					out = runlog.SyntheticPath(input, suffix)
				}
				jobs[i] = runlog.Job{Input: input, Output: out, Overrides: ov}
			}

			runCtx, logger, err := ctx.runContext(cmd)
			if err != nil {
				return err
			}
			outcomes := runlog.RewriteAll(runCtx, jobs, workers, runlog.Options{Logger: logger})

			failed := 0
			for _, outcome := range outcomes {
				if outcome.Err != nil {
					failed++
				}
			}

			if jsonOutput {
				if err := writeJSON(cmd, synthReport(jobs, outcomes)); err != nil {
					return err
				}
			} else {
				printSynthOutcomes(cmd, jobs, outcomes)
			}

			if failed > 0 {
				if len(jobs) == 1 {
					return outcomes[0].Err
				}
				return fmt.Errorf("%d of %d runlogs failed", failed, len(jobs))
			}
			return nil
		},
	}

	defaults := runlog.DefaultSyntheticPolicy()
	cmd.Flags().Float64Var(&v0, "v0", defaults.V0, "Synthetic range start (cm-1)")
	cmd.Flags().Float64Var(&v1, "v1", defaults.V1, "Synthetic range end (cm-1)")
	cmd.Flags().Float64Var(&deltaNu, "dnu", defaults.DeltaNu, "Spectral point spacing (cm-1)")
	cmd.Flags().Int64Var(&snr, "snr", defaults.SNR, "Signal to noise ratio written to every record")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Suffix inserted before the output extension (default from config)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output path (single input only)")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Extra column override NAME=VALUE (repeatable)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent rewrites (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type synthEntry struct {
	Input  string         `json:"input"`
	Output string         `json:"output"`
	Result *runlog.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func synthReport(jobs []runlog.Job, outcomes []runlog.Outcome) []synthEntry {
	entries := make([]synthEntry, len(jobs))
	for i, outcome := range outcomes {
		entries[i] = synthEntry{Input: jobs[i].Input, Output: jobs[i].Output}
		if outcome.Err != nil {
			entries[i].Error = outcome.Err.Error()
			continue
		}
		result := outcome.Result
		entries[i].Result = &result
	}
	return entries
}

func printSynthOutcomes(cmd *cobra.Command, jobs []runlog.Job, outcomes []runlog.Outcome) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintln(out, renderStatusLine(jobs[i].Input, statusError, outcome.Err.Error(), colorize))
			continue
		}
		message := fmt.Sprintf("%d records -> %s", outcome.Result.Records, outcome.Result.Output)
		fmt.Fprintln(out, renderStatusLine(jobs[i].Input, statusOK, message, colorize))
	}
}

func newRunlogFieldsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fields <runlog>",
		Short: "List the columns of a runlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := runlog.ParseFile(args[0])
			if err != nil {
				return err
			}

			format := rl.Format()
			names := rl.Header().Names()

			type fieldInfo struct {
				Index      int    `json:"index"`
				Name       string `json:"name"`
				Descriptor string `json:"descriptor"`
				Start      int    `json:"start"`
				End        int    `json:"end"`
			}
			fields := make([]fieldInfo, len(names))
			for i, name := range names {
				start, end := format.FieldSpan(i)
				fields[i] = fieldInfo{
					Index:      i + 1,
					Name:       name,
					Descriptor: format.Field(i).String(),
					Start:      start + 1,
					End:        end,
				}
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"format":  format.String(),
					"width":   format.Width(),
					"records": rl.Len(),
					"fields":  fields,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Format:  %s\n", format)
			fmt.Fprintf(out, "Width:   %d\n", format.Width())
			fmt.Fprintf(out, "Records: %d\n", rl.Len())
			rows := make([][]string, len(fields))
			for i, f := range fields {
				name := f.Name
				if name == "" {
					name = "(marker)"
				}
				rows[i] = []string{
					strconv.Itoa(f.Index),
					name,
					f.Descriptor,
					fmt.Sprintf("%d-%d", f.Start, f.End),
				}
			}
			fmt.Fprint(out, renderTable(tableSpec{
				Headers: []string{"#", "Name", "Descriptor", "Columns"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			}))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newRunlogColumnCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column <runlog> <name>",
		Short: "Print one column of every runlog record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := runlog.ParseFile(args[0])
			if err != nil {
				return err
			}
			values, err := rl.Column(args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, v := range values {
				_, line := rl.Record(i)
				fmt.Fprintf(out, "%d\t%s\n", line, v)
			}
			return nil
		},
	}
	return cmd
}
