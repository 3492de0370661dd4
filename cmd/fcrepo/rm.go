package main

import (
	"github.com/spf13/cobra"
)

func rmCmd(opts *cliOptions) *cobra.Command {
	var obliterate bool

	cmd := &cobra.Command{
		Use:   "rm <uri|path>",
		Short: "Delete a resource",
		Long: `Delete a resource. Fedora leaves a tombstone at the path; pass
--obliterate to remove it as well so the path can be reused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.newRepository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			uri := resolveURI(repo, args[0])

			if err := repo.Delete(ctx, uri); err != nil {
				return err
			}
			if obliterate {
				return repo.Obliterate(ctx, uri)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&obliterate, "obliterate", false, "Also remove the tombstone, freeing the path")

	return cmd
}
