package main

import (
	"github.com/spf13/cobra"

	"github.com/ecosnap/ecosnap/internal/tui"
)

func flowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flow",
		Short: "Interactive classification flow",
		Long: `Flow starts the full-screen interactive interface: pick an image,
classify it, save results, and browse your history.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cleanup, err := buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), eng)
		},
	}
}
