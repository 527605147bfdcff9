package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nomadpi-assistant/internal/application"
)

var callCmd = &cobra.Command{
	Use:     "call <function> [key=value...]",
	Short:   "Run one function call against the backend",
	Example: "  nomadpi call toggle switch_name=relay-7 state=on",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		callArgs, err := parseCallArgs(args[1:])
		if err != nil {
			return err
		}

		_, svc, _, err := setup()
		if err != nil {
			return err
		}

		result, err := svc.Dispatch(cmd.Context(), args[0], callArgs)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func parseCallArgs(pairs []string) (application.Args, error) {
	args := make(application.Args, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}
