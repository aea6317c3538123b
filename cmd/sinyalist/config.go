package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burakkonte/sinyalist/internal/conf"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Write a starter sinyalist.yaml with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := conf.DefaultConfigFileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := conf.WriteExample(path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	return cmd
}
