package runlog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gggkit/internal/fileutil"
	"gggkit/internal/logging"
	"gggkit/internal/preflight"
	"gggkit/internal/services"
)

const stageName = "runlog"

// Options tunes a rewrite.
type Options struct {
	Logger *slog.Logger
	// Mode of the output file. Zero copies the input's permissions.
	Mode os.FileMode
}

// Result describes a completed rewrite.
type Result struct {
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Records  int           `json:"records"`
	Fields   []string      `json:"fields"`
	Duration time.Duration `json:"duration"`
}

// Rewrite parses in, applies ov to every record, and atomically writes the
// result to out. Nothing is written unless every record re-encodes.
func Rewrite(ctx context.Context, in, out string, ov Overrides, opts Options) (Result, error) {
	start := time.Now()
	ctx = services.WithPath(services.WithStage(ctx, stageName), in)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "runlog"))
	result := Result{Input: in, Output: out}

	if check := preflight.CheckFileReadable("runlog", in); !check.Passed {
		return result, services.Wrap(services.ErrNotFound, stageName, "preflight", check.Detail, nil)
	}
	if check := preflight.CheckOutputWritable("output", out); !check.Passed {
		return result, services.Wrap(services.ErrConfiguration, stageName, "preflight", check.Detail, nil)
	}
	if samePath(in, out) {
		return result, services.Wrap(services.ErrValidation, stageName, "preflight", "output path equals input path "+in, nil)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	rl, err := ParseFile(in)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, stageName, "parse", in, err)
	}
	logger.Debug("runlog parsed",
		logging.String("format", rl.Format().String()),
		logging.Int("fields", rl.Format().Fields()),
		logging.Int("records", rl.Len()),
	)

	bindings, err := rl.Header().Resolve(ov)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, stageName, "resolve overrides", in, err)
	}
	if err := rl.Apply(ov); err != nil {
		return result, services.Wrap(services.ErrValidation, stageName, "apply overrides", in, err)
	}

	mode := opts.Mode
	if mode == 0 {
		mode = 0o644
		if info, statErr := os.Stat(in); statErr == nil {
			mode = info.Mode().Perm()
		}
	}
	if err := fileutil.WriteFileAtomic(ctx, out, rl.Bytes(), mode); err != nil {
		return result, services.Wrap(services.ErrTransient, stageName, "write", out, err)
	}

	result.Records = rl.Len()
	for _, b := range bindings {
		result.Fields = append(result.Fields, b.Name)
	}
	result.Duration = time.Since(start)
	logger.Info("synthetic runlog written",
		logging.String("output", out),
		logging.Int("records", result.Records),
		logging.Int("overrides", len(bindings)),
		logging.Duration("elapsed", result.Duration),
	)
	return result, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
