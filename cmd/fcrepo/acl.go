package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/fcrepo/client"
)

func aclCmd(opts *cliOptions) *cobra.Command {
	var (
		grant  string
		revoke string
		mode   string
		target string
	)

	cmd := &cobra.Command{
		Use:   "acl <uri|path>",
		Short: "Inspect or modify a resource's access controls",
		Long: `Without flags, prints the effective ACL of a resource as JSON,
keyed by protected URI then agent. --grant/--revoke modify the ACL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.newRepository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			uri := resolveURI(repo, args[0])

			acl, err := repo.GetACL(ctx, uri)
			if err != nil {
				return err
			}

			accessMode := client.AccessMode(mode)
			switch {
			case grant != "":
				grantURI := uri
				if target != "" {
					grantURI = resolveURI(repo, target)
				}
				return acl.Grant(ctx, grant, accessMode, grantURI)
			case revoke != "":
				return acl.Revoke(ctx, revoke, accessMode)
			}

			perms, err := acl.Permissions(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(perms)
		},
	}

	cmd.Flags().StringVar(&grant, "grant", "", "Grant this agent access")
	cmd.Flags().StringVar(&revoke, "revoke", "", "Revoke this agent's access")
	cmd.Flags().StringVar(&mode, "mode", string(client.AccessRead), "Access mode for --grant/--revoke (Read or Write)")
	cmd.Flags().StringVar(&target, "target", "", "Resource the grant applies to (defaults to the ACL's resource)")

	cmd.MarkFlagsMutuallyExclusive("grant", "revoke")

	return cmd
}
