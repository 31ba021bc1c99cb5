package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nickandperla.net/snailfish/pkg/snailfish"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce NUMBER",
	Short: "Print the reduced form of a snailfish number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := engine.Parse(args[0])
		if err != nil {
			return err
		}
		n, err = engine.Reduce(n)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var magnitudeCmd = &cobra.Command{
	Use:   "magnitude NUMBER",
	Short: "Print the magnitude of a snailfish number as written",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := engine.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), engine.Magnitude(n))
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add NUMBER NUMBER...",
	Short: "Add numbers left to right and print the reduced sum",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sum snailfish.Node
		for i, arg := range args {
			n, err := engine.Parse(arg)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}
			if sum == nil {
				sum = n
				continue
			}
			sum, err = engine.Add(sum, n)
			if err != nil {
				return err
			}
			logger.Debug("partial sum", zap.Int("operands", i+1), zap.Stringer("number", sum))
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reduceCmd, magnitudeCmd, addCmd)
}
