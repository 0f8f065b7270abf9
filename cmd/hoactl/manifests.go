package main

import (
	"github.com/jo-hoe/hoasite/internal/core"
	"github.com/jo-hoe/hoasite/internal/deploy"
	"github.com/spf13/cobra"
)

func newManifestsCommand(root *rootOptions) *cobra.Command {
	var opts deploy.Options
	cmd := &cobra.Command{
		Use:   "manifests",
		Short: "Print Kubernetes manifests for an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Environment = root.environment
			if opts.Environment == "" {
				opts.Environment = core.Environment()
			}
			out, err := deploy.Manifests(opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Image, "image", "", "container image")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "namespace")
	cmd.Flags().Int32Var(&opts.Port, "port", 0, "container port (default per environment)")
	cmd.Flags().StringVar(&opts.StorageSize, "storage", "", "data volume size")
	return cmd
}
