package main

import (
	"fmt"

	"github.com/spf13/cobra"

	stringprocessor "github.com/baditaflorin/go_string_processor"
)

func (c *cli) newOperationCmd(name, short string, op stringprocessor.Operation, aliases ...string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     name + " [text...]",
		Short:   short,
		Aliases: aliases,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args, []stringprocessor.Operation{op})
		},
	}
	cmd.Flags().StringVarP(&c.inputFile, "file", "f", "", "Read input from a file")
	return cmd
}

func (c *cli) newApplyCmd() *cobra.Command {
	var opList string

	cmd := &cobra.Command{
		Use:   "apply --ops upper,reverse [text...]",
		Short: "Apply several operations in order",
		Long: `Apply runs a comma separated list of operations from left to right.

Examples:
  strproc apply --ops upper,reverse "ab cd"      # DC BA
  echo "a b c" | strproc apply --ops remove-spaces,upper`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := stringprocessor.ParseOperations(opList)
			if err != nil {
				return err
			}
			if len(ops) == 0 {
				return fmt.Errorf("--ops must name at least one operation")
			}
			return c.run(cmd, args, ops)
		},
	}
	cmd.Flags().StringVar(&opList, "ops", "", "Comma separated operations: reverse, upper, remove-spaces")
	cmd.Flags().StringVarP(&c.inputFile, "file", "f", "", "Read input from a file")
	_ = cmd.MarkFlagRequired("ops")
	return cmd
}
