package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nickandperla.net/snailfish/pkg/snailfish"
)

var errNoInput = errors.New("no input: pass a FILE or pipe numbers on stdin")

// openInput returns the named file, or stdin when it is not a terminal.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil, errNoInput
	}
	return io.NopCloser(in), nil
}

// loadList reads the master list, applying --skip-invalid to parse errors.
func loadList(cmd *cobra.Command, args []string) (*snailfish.List, error) {
	in, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	list, err := engine.Load(in)
	if err == nil {
		return list, nil
	}
	parseErrs := snailfish.ParseErrors(err)
	if !skipInvalid || len(parseErrs) == 0 {
		return nil, err
	}
	for _, pe := range parseErrs {
		logger.Warn("skipping malformed number",
			zap.Int("line", pe.Line),
			zap.Int("column", pe.Column),
			zap.String("reason", pe.Msg))
	}
	return list, nil
}

func runHomework(cmd *cobra.Command, args []string) error {
	list, err := loadList(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	logger.Info("loaded numbers", zap.Int("count", list.Len()))

	sum, err := engine.Sum(ctx, list)
	if err != nil {
		return err
	}
	logger.Debug("final sum", zap.Stringer("number", sum))
	fmt.Fprintln(out, engine.Magnitude(sum))

	best, err := engine.MaxPair(ctx, list)
	if err != nil {
		return err
	}
	logger.Debug("best pair",
		zap.Int("left_line", list.Line(best.Left)),
		zap.Int("right_line", list.Line(best.Right)))
	fmt.Fprintln(out, best.Magnitude)
	return nil
}
