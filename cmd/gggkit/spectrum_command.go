package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gggkit/internal/catalog"
	"gggkit/internal/config"
	"gggkit/internal/scan"
	"gggkit/internal/spectrum"
)

func newSpectrumCommand(ctx *commandContext) *cobra.Command {
	spectrumCmd := &cobra.Command{
		Use:     "spectrum",
		Aliases: []string{"spt"},
		Short:   "Summarize and catalog fitted spectrum files",
	}

	spectrumCmd.AddCommand(newSpectrumShowCommand(ctx))
	spectrumCmd.AddCommand(newSpectrumScanCommand(ctx))
	spectrumCmd.AddCommand(newSpectrumListCommand(ctx))
	spectrumCmd.AddCommand(newSpectrumForgetCommand(ctx))

	return spectrumCmd
}

// spectrumSummary is the per-file view printed by show.
type spectrumSummary struct {
	Path       string   `json:"path"`
	Identifier string   `json:"identifier"`
	SZA        float64  `json:"sza"`
	Zobs       float64  `json:"zobs"`
	Rows       int      `json:"rows"`
	RMSResid   float64  `json:"rms_resid"`
	MaxResid   float64  `json:"max_resid"`
	Species    []string `json:"species"`
	Window     *float64 `json:"window,omitempty"`
}

func summarize(cfg *config.Config, path string, table *spectrum.Table) spectrumSummary {
	s := spectrumSummary{
		Path:       path,
		Identifier: table.Identifier,
		SZA:        table.SZA,
		Zobs:       table.Zobs,
		Rows:       table.Len(),
		RMSResid:   table.RMSResid,
		MaxResid:   table.MaxAbsResid(),
		Species:    table.Species(),
	}
	if center, ok := cfg.Window(path); ok {
		s.Window = &center
	}
	return s
}

func newSpectrumShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <file>...",
		Short: "Parse spectrum files and print their residual statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tables, err := spectrum.ParseMany(cmd.Context(), cfg.Spectrum.Workers, args...)
			if err != nil {
				return err
			}

			summaries := make([]spectrumSummary, len(tables))
			for i, table := range tables {
				summaries[i] = summarize(cfg, args[i], table)
			}
			if jsonOutput {
				return writeJSON(cmd, summaries)
			}

			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				window := "-"
				if s.Window != nil {
					window = formatFloat(*s.Window, 1)
				}
				rows[i] = []string{
					s.Identifier,
					formatFloat(s.SZA, 3),
					formatFloat(s.Zobs, 3),
					strconv.Itoa(s.Rows),
					formatFloat(s.RMSResid, 4),
					formatFloat(s.MaxResid, 4),
					window,
					strings.Join(s.Species, " "),
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable(tableSpec{
				Headers: []string{"Spectrum", "SZA", "Zobs", "Rows", "RMS", "Max", "Window", "Species"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
			}))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSpectrumScanCommand(ctx *commandContext) *cobra.Command {
	var (
		pattern    string
		force      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Index matching spectrum files into the catalog",
		Long: `Parse every file in dir (default paths.data_dir) whose name contains the
configured pattern and record its residual statistics in the catalog.
Files whose checksum is unchanged since a successful parse are skipped
unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, logger, err := ctx.runContext(cmd)
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := scan.Options{Pattern: pattern, Force: force, Logger: logger}
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			report, err := scan.Run(runCtx, store, cfg, opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Scan "+report.Scan.Dir, colorize) {
				fmt.Fprintln(out, line)
			}
			for _, file := range report.Files {
				if file.Skipped {
					fmt.Fprintln(out, renderStatusLine(baseName(file.Path), statusInfo, "unchanged", colorize))
					continue
				}
				fmt.Fprintln(out, renderStatusLine(baseName(file.Path), catalogStatusKind(file.Status), file.Error, colorize))
			}
			fmt.Fprintf(out, "Parsed %d, skipped %d, failed %d in %s\n",
				report.Scan.Parsed, report.Scan.Skipped, report.Scan.Failed, report.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "File name substring to match (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-parse files whose checksum is unchanged")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSpectrumListCommand(ctx *commandContext) *cobra.Command {
	var (
		species    string
		status     string
		worst      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued spectra",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if worst < 0 {
				return errors.New("--worst must not be negative")
			}
			opts := catalog.ListOptions{Species: species, Worst: worst}
			if status = strings.TrimSpace(strings.ToLower(status)); status != "" {
				opts.Status = catalog.Status(status)
				if !opts.Status.Valid() {
					return fmt.Errorf("unknown status %q (want parsed, invalid or failed)", status)
				}
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No spectra catalogued")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					baseName(e.Path),
					colorizeStatus(e.Status, colorize),
					formatFloat(e.SZA, 3),
					strconv.Itoa(e.Rows),
					formatFloat(e.RMSResid, 4),
					strings.Join(e.Species, " "),
				}
				if e.Status != catalog.StatusParsed {
					rows[i][2], rows[i][3], rows[i][4] = "-", "-", "-"
					rows[i][5] = e.Error
				}
			}
			fmt.Fprint(out, renderTable(tableSpec{
				Headers: []string{"File", "Status", "SZA", "Rows", "RMS", "Species / Error"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				Footer:  []string{fmt.Sprintf("%d spectra", len(entries))},
			}))
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "Only spectra that fitted this species (case-insensitive)")
	cmd.Flags().StringVar(&status, "status", "", "Only entries with this status (parsed, invalid, failed)")
	cmd.Flags().IntVar(&worst, "worst", 0, "Only the N parsed spectra with the largest RMS residual")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSpectrumForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <path>...",
		Short: "Remove spectra from the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, path := range args {
				resolved, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				if _, err := store.Get(cmd.Context(), resolved); err != nil {
					if errors.Is(err, catalog.ErrNotFound) {
						fmt.Fprintf(out, "%s: not catalogued\n", path)
						continue
					}
					return err
				}
				if err := store.Remove(cmd.Context(), resolved); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %s\n", resolved)
			}
			return nil
		},
	}
}

