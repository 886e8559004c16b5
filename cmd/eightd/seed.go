package main

import (
	"fmt"

	"github.com/lalith-99/eightd/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo users, teams and problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		res, err := seed.Run(cmd.Context(), a.store, a.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d users, %d teams, %d problems\n", res.Users, res.Teams, res.Problems)
		return nil
	},
}
