package labels

import (
	"context"
	"log/slog"

	"lgdhemis/internal/logging"
	"lgdhemis/internal/toolexec"
)

// Calculator derives mask and classified volumes with minccalc. Outputs are
// unsigned 8-bit; the input segmentation is never modified.
type Calculator struct {
	Binary string
	Runner toolexec.Runner
	Logger *slog.Logger
}

// NewCalculator returns a Calculator for the given minccalc binary.
func NewCalculator(binary string, runner toolexec.Runner, logger *slog.Logger) *Calculator {
	if runner == nil {
		runner = toolexec.ExecRunner{}
	}
	return &Calculator{Binary: binary, Runner: runner, Logger: logging.NewComponentLogger(logger, "minccalc")}
}

// BuildMask writes a binary brain mask (voxel > 0.5) of seg to output.
func (c *Calculator) BuildMask(ctx context.Context, seg, output string) error {
	return c.run(ctx, MaskExpression(), seg, output)
}

// Remap writes seg remapped into the BG/CSF/GM/WM scheme to output.
func (c *Calculator) Remap(ctx context.Context, seg, output string) error {
	return c.run(ctx, ClassifyExpression(), seg, output)
}

func (c *Calculator) run(ctx context.Context, expr, input, output string) error {
	cmd := Command(c.Binary, expr, input, output)
	logging.WithContext(ctx, c.Logger).Debug("running minccalc", logging.String(logging.FieldCommand, cmd.String()))
	_, err := c.Runner.Run(ctx, cmd)
	return err
}

// Command builds the minccalc invocation for expr.
func Command(binary, expr, input, output string) toolexec.Command {
	return toolexec.Command{
		Name: binary,
		Args: []string{"-quiet", "-unsigned", "-byte", "-expr", expr, input, output},
	}
}
