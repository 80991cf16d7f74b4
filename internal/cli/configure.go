package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/supplydesk/desk/internal/client"
)

type ConfigureOptions struct {
	GlobalOptions
}

func NewCmdConfigure() *cobra.Command {
	o := &ConfigureOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:          "configure --server-url URL",
		Short:        "Write the server address to the client configuration file",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	if err := validateFlags(cmd, "server-url"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *ConfigureOptions) Run(ctx context.Context, args []string) error {
	config, err := o.Config()
	if err != nil {
		return err
	}
	if err := client.WriteConfig(o.ConfigFilePath, config.Service.Server); err != nil {
		return fmt.Errorf("writing %s: %w", o.ConfigFilePath, err)
	}
	fmt.Fprintf(o.out, "Server %s written to %s\n", config.Service.Server, o.ConfigFilePath)
	return nil
}
