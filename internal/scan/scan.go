package scan

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"gggkit/internal/catalog"
	"gggkit/internal/config"
	"gggkit/internal/fileutil"
	"gggkit/internal/logging"
	"gggkit/internal/preflight"
	"gggkit/internal/services"
	"gggkit/internal/spectrum"
)

const stageName = "scan"

// Options configures a scan.
type Options struct {
	// Dir defaults to the configured data directory.
	Dir string
	// Pattern defaults to the configured name pattern.
	Pattern string
	// Force re-parses files whose checksum is unchanged.
	Force  bool
	Logger *slog.Logger
}

// FileResult reports what a scan did with one file.
type FileResult struct {
	Path    string         `json:"path"`
	Status  catalog.Status `json:"status"`
	Skipped bool           `json:"skipped,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Report summarizes a finished scan.
type Report struct {
	Scan     *catalog.Scan `json:"scan"`
	Files    []FileResult  `json:"files"`
	Duration time.Duration `json:"duration"`
}

type candidate struct {
	path     string
	checksum string
	size     int64
}

// Run scans one directory into store.
func Run(ctx context.Context, store *catalog.Store, cfg *config.Config, opts Options) (*Report, error) {
	start := time.Now()
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		dir = cfg.Paths.DataDir
	}
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "resolve directory", "no directory given and paths.data_dir is unset", nil)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = cfg.Spectrum.NamePattern
	}

	ctx = services.WithPath(services.WithStage(ctx, stageName), dir)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "scan"))

	if check := preflight.CheckReadableDirectory("spectrum directory", dir); !check.Passed {
		return nil, services.Wrap(services.ErrNotFound, stageName, "preflight", check.Detail, nil)
	}
	paths, err := spectrum.Discover(dir, pattern)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageName, "discover", dir, err)
	}

	scan, err := store.BeginScan(ctx, dir, pattern)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageName, "begin", dir, err)
	}
	logger.Info("scan started",
		logging.String("scan_id", scan.ID),
		logging.String("pattern", pattern),
		logging.Int("files", len(paths)),
	)

	report := &Report{Scan: scan}
	var pending []candidate
	for _, path := range paths {
		checksum, size, err := fileutil.HashFile(path)
		if err != nil {
			res := record(ctx, store, logger, catalog.Entry{Path: path, ScanID: scan.ID},
				services.Wrap(services.ErrTransient, stageName, "hash", path, err))
			report.Files = append(report.Files, res)
			continue
		}
		if !opts.Force && unchanged(ctx, store, path, checksum) {
			report.Files = append(report.Files, FileResult{Path: path, Status: catalog.StatusParsed, Skipped: true})
			continue
		}
		pending = append(pending, candidate{path: path, checksum: checksum, size: size})
	}

	pendingPaths := make([]string, len(pending))
	for i, c := range pending {
		pendingPaths[i] = c.path
	}
	outcomes := spectrum.ParseEach(ctx, cfg.Spectrum.Workers, pendingPaths...)
	for i, outcome := range outcomes {
		c := pending[i]
		if outcome.Err != nil {
			entry := catalog.Entry{Path: c.path, ScanID: scan.ID, Checksum: c.checksum, Size: c.size}
			report.Files = append(report.Files, record(ctx, store, logger, entry, classify(c.path, outcome.Err)))
			continue
		}
		window, _ := cfg.Window(c.path)
		entry := catalog.EntryFromTable(c.path, c.checksum, c.size, outcome.Table, window)
		entry.ScanID = scan.ID
		report.Files = append(report.Files, record(ctx, store, logger, entry, nil))
	}

	for _, f := range report.Files {
		switch {
		case f.Skipped:
			scan.Skipped++
		case f.Status == catalog.StatusParsed:
			scan.Parsed++
		default:
			scan.Failed++
		}
	}
	if err := store.FinishScan(ctx, scan); err != nil {
		return report, services.Wrap(services.ErrTransient, stageName, "finish", dir, err)
	}
	report.Duration = time.Since(start)
	logger.Info("scan finished",
		logging.String("scan_id", scan.ID),
		logging.Int("parsed", scan.Parsed),
		logging.Int("skipped", scan.Skipped),
		logging.Int("failed", scan.Failed),
		logging.Duration("elapsed", report.Duration),
	)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func unchanged(ctx context.Context, store *catalog.Store, path, checksum string) bool {
	existing, err := store.Get(ctx, path)
	if err != nil {
		return false
	}
	return existing.Status == catalog.StatusParsed && existing.Checksum == checksum
}

// classify tags structural parse failures as validation errors so they are
// recorded as invalid; anything else is a failed read.
func classify(path string, err error) error {
	var (
		missing  *spectrum.MissingColumnError
		width    *spectrum.RowWidthError
		numeric  *spectrum.NumericParseError
		preamble *spectrum.PreambleError
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &width), errors.As(err, &numeric), errors.As(err, &preamble):
		return services.Wrap(services.ErrValidation, "spectrum", "parse", path, err)
	default:
		return services.Wrap(services.ErrTransient, "spectrum", "read", path, err)
	}
}

func record(ctx context.Context, store *catalog.Store, logger *slog.Logger, entry catalog.Entry, parseErr error) FileResult {
	if parseErr != nil {
		entry.Status = services.FailureStatus(parseErr)
		entry.Error = parseErr.Error()
		logging.WarnWithContext(logger, "spectrum not indexed", "spectrum_parse_failed",
			logging.String("file", entry.Path),
			logging.String("status", string(entry.Status)),
			logging.Error(parseErr),
			logging.String(logging.FieldErrorHint, "inspect the file or rerun with --force after fixing it"),
			logging.String(logging.FieldImpact, "file recorded without statistics"),
		)
	}
	result := FileResult{Path: entry.Path, Status: entry.Status, Error: entry.Error}
	if err := store.Upsert(ctx, entry); err != nil {
		logging.ErrorWithContext(logger, "catalog update failed", "catalog_upsert_failed",
			logging.String("file", entry.Path),
			logging.Error(err),
		)
		result.Status = catalog.StatusFailed
		result.Error = err.Error()
	}
	return result
}
