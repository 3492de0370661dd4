package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func getCmd(opts *cliOptions) *cobra.Command {
	var (
		output   string
		children bool
	)

	cmd := &cobra.Command{
		Use:   "get <uri|path>",
		Short: "Fetch a resource and print its metadata or payload",
		Long: `Fetch a resource. RDF resources print as Turtle; binaries stream
their raw payload to stdout or the file given with --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.newRepository()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			uri := resolveURI(repo, args[0])

			res, err := repo.Get(ctx, uri)
			if err != nil {
				return err
			}

			if res.RDF != nil {
				if children {
					for _, child := range res.Children() {
						fmt.Println(child)
					}
					return nil
				}
				turtle, err := res.RDF.Turtle()
				if err != nil {
					return err
				}
				fmt.Print(turtle)
				return nil
			}

			// Non-RDF: stream the payload.
			body, _, err := repo.Open(ctx, uri)
			if err != nil {
				return err
			}
			defer body.Close()

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if _, err := io.Copy(out, body); err != nil {
				return fmt.Errorf("download %s: %w", uri, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write binary payload to this file instead of stdout")
	cmd.Flags().BoolVar(&children, "children", false, "List child URIs instead of printing metadata")

	return cmd
}
