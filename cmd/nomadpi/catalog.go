package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"nomadpi-assistant/internal/domain"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the option catalogs offered to the assistant",
}

func init() {
	catalogCmd.AddCommand(
		catalogSubcommand("state-sources", "List readable state sources", func(ctx context.Context, b catalogBuilder) ([]domain.Option, error) {
			return b.StateSources(ctx)
		}),
		catalogSubcommand("switches", "List switchable devices", func(ctx context.Context, b catalogBuilder) ([]domain.Option, error) {
			return b.Switches(ctx)
		}),
	)
}

type catalogBuilder interface {
	StateSources(ctx context.Context) ([]domain.Option, error)
	Switches(ctx context.Context) ([]domain.Option, error)
}

func catalogSubcommand(use, short string, build func(context.Context, catalogBuilder) ([]domain.Option, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, svc, _, err := setup()
			if err != nil {
				return err
			}
			options, err := build(cmd.Context(), svc)
			if err != nil {
				return err
			}
			return printJSON(options)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
