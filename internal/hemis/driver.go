package hemis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lgdhemis/internal/companion"
	"lgdhemis/internal/logging"
	"lgdhemis/internal/pathmap"
	"lgdhemis/internal/toolexec"
)

// placeholder fills the two unused argument slots of the extraction tool.
const placeholder = "none"

// VolumeCalculator derives the intermediate volumes from a segmentation.
type VolumeCalculator interface {
	BuildMask(ctx context.Context, seg, output string) error
	Remap(ctx context.Context, seg, output string) error
}

// Options configures a Driver.
type Options struct {
	// ExtractBinary is the extract_wm_hemispheres_fetus executable.
	ExtractBinary string
	// WorkDir is the parent of per-subject workspaces; empty uses os.TempDir.
	WorkDir    string
	Calculator VolumeCalculator
	Runner     toolexec.Runner
	Logger     *slog.Logger
}

// Driver processes one subject at a time. A Driver holds no per-subject
// state and is safe for concurrent use.
type Driver struct {
	extract string
	workDir string
	calc    VolumeCalculator
	runner  toolexec.Runner
	logger  *slog.Logger
}

// NewDriver validates opts and returns a Driver.
func NewDriver(opts Options) (*Driver, error) {
	if opts.ExtractBinary == "" {
		return nil, errors.New("hemis: extraction binary is required")
	}
	if opts.Calculator == nil {
		return nil, errors.New("hemis: volume calculator is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = toolexec.ExecRunner{}
	}
	return &Driver{
		extract: opts.ExtractBinary,
		workDir: opts.WorkDir,
		calc:    opts.Calculator,
		runner:  runner,
		logger:  logging.NewComponentLogger(opts.Logger, "hemis"),
	}, nil
}

// Process runs the full pipeline for one segmentation. It never panics and
// never returns an error: failures are reported through Result.
func (d *Driver) Process(ctx context.Context, pair pathmap.Pair) (res Result) {
	started := time.Now()
	ctx = logging.WithSubject(ctx, pair.Subject())
	logger := logging.WithContext(ctx, d.logger)

	res = Result{Pair: pair, State: StatePending}
	res.Left, res.Right = pathmap.HemisphereOutputs(pair.Output)

	defer func() {
		if r := recover(); r != nil {
			res.fail(fmt.Errorf("%w: %v", ErrPanic, r))
			logging.ErrorWithContext(logger, "subject processing panicked", "subject_panic",
				logging.String(logging.FieldState, res.FailedAt.String()),
				logging.Error(res.Err),
			)
		}
		res.Duration = time.Since(started)
	}()

	ref, err := companion.Find(pair.Input)
	if err != nil {
		res.fail(err)
		logging.ErrorWithContext(logger, companionMessage(err), "reference_unresolved",
			logging.String("segmentation", filepath.Base(pair.Input)),
			logging.String(logging.FieldErrorHint, "each subject directory must hold exactly one segmentation and one reference image"),
			logging.Error(err),
		)
		return res
	}
	res.Reference = ref
	res.advance(StateReferenceResolved)

	if err := d.extractHemispheres(ctx, &res, logger); err != nil {
		res.fail(err)
		d.logFailure(logger, res, err)
		return res
	}

	res.advance(StateSucceeded)
	logger.Info(fmt.Sprintf("%s (segmentation=%s t2=%s) -> %s",
		pair.Subject(), filepath.Base(pair.Input), filepath.Base(ref), pathmap.Template(pair.Output)),
		logging.String(logging.FieldState, res.State.String()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return res
}

// extractHemispheres prepares intermediate volumes in a private workspace
// and runs the extraction tool. The workspace is removed before returning.
func (d *Driver) extractHemispheres(ctx context.Context, res *Result, logger *slog.Logger) error {
	seg := res.Pair.Input
	ws, err := os.MkdirTemp(d.workDir, filepath.Base(filepath.Dir(seg)))
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(ws); rmErr != nil {
			logging.WarnWithContext(logger, "failed to remove subject workspace", "workspace_cleanup_failed",
				logging.String("path", ws),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}()
	res.advance(StateWorkspaceReady)

	ext := filepath.Ext(seg)
	mask := filepath.Join(ws, "brain_mask"+ext)
	classified := filepath.Join(ws, "classified"+ext)

	if err := d.calc.BuildMask(ctx, seg, mask); err != nil {
		return err
	}
	if err := d.calc.Remap(ctx, seg, classified); err != nil {
		return err
	}
	res.advance(StateMaskAndClassified)

	cmd := ExtractCommand(d.extract, classified, res.Reference, mask, res.Left, res.Right)
	logger.Debug("running hemisphere extraction", logging.String(logging.FieldCommand, cmd.String()))
	res.advance(StateExtractionInvoked)
	if _, err := d.runner.Run(ctx, cmd); err != nil {
		return err
	}
	for _, out := range []string{res.Left, res.Right} {
		if _, err := os.Stat(out); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingOutput, out)
		}
	}
	return nil
}

func (d *Driver) logFailure(logger *slog.Logger, res Result, err error) {
	attrs := []logging.Attr{
		logging.String(logging.FieldState, res.FailedAt.String()),
		logging.Error(err),
	}
	var cerr *toolexec.CommandError
	if errors.As(err, &cerr) {
		cmd := toolexec.Command{Name: cerr.Argv[0], Args: cerr.Argv[1:]}
		attrs = append(attrs,
			logging.String(logging.FieldCommand, cmd.String()),
			logging.Int(logging.FieldExitCode, cerr.ExitCode),
		)
		if tail := toolexec.Tail(cerr.Output, 5); tail != "" {
			attrs = append(attrs, logging.String("output", tail))
		}
		logging.ErrorWithContext(logger, fmt.Sprintf("%s exited with code: %d", cerr.Argv[0], cerr.ExitCode), "tool_failed", attrs...)
		return
	}
	logging.ErrorWithContext(logger, "subject processing failed", "subject_failed", attrs...)
}

// ExtractCommand builds the extract_wm_hemispheres_fetus invocation. Its
// console output is not useful to the batch and is discarded.
func ExtractCommand(binary, classified, reference, mask, left, right string) toolexec.Command {
	return toolexec.Command{
		Name:  binary,
		Args:  []string{classified, reference, mask, placeholder, placeholder, left, right},
		Quiet: true,
	}
}

func companionMessage(err error) string {
	switch {
	case errors.Is(err, companion.ErrTooMany):
		return "too many files in subject directory"
	case errors.Is(err, companion.ErrNotFound):
		return "reference image not found"
	default:
		return "reference lookup failed"
	}
}
