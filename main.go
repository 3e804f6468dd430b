/*
GreenEye Cube API serves the smart-agriculture dashboard: live field
sensors, weather, plant disease checks, crop recommendations and pest risk.

Usage:

	greeneye [command]

Commands:

	serve       Run the HTTP API (default)
	recommend   Rank crops for an environmental profile
	pest-risk   Classify pest risk from four readings
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "greeneye",
		Short:        "GreenEye Cube smart-agriculture API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(newServeCmd(), newRecommendCmd(), newPestRiskCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
