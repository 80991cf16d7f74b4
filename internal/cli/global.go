package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/supplydesk/desk/internal/client"
	"github.com/thoas/go-funk"
)

const (
	tableFormat = "table"
	jsonFormat  = "json"
	yamlFormat  = "yaml"
)

var (
	legalOutputTypes = []string{tableFormat, jsonFormat, yamlFormat}
)

type GlobalOptions struct {
	ConfigFilePath string
	ServerUrl      string
	Output         string

	// NewDesk builds the API client. Tests replace it.
	NewDesk func(config *client.Config, tracker *client.Interceptor) (client.Desk, error)

	out io.Writer
	in  io.Reader
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: client.DefaultConfigPath(),
		Output:         tableFormat,
		NewDesk:        client.NewFromConfig,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client configuration file")
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server, overrides the configuration file")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	o.out = cmd.OutOrStdout()
	o.in = cmd.InOrStdin()
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if !funk.ContainsString(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// Config loads the client configuration and applies the flag overrides.
func (o *GlobalOptions) Config() (*client.Config, error) {
	config, err := client.LoadConfig(o.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	if o.ServerUrl != "" {
		config.Service.Server = strings.TrimSuffix(o.ServerUrl, "/")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (o *GlobalOptions) Client() (client.Desk, error) {
	return o.ClientWithTracker(client.NewInterceptor())
}

func (o *GlobalOptions) ClientWithTracker(tracker *client.Interceptor) (client.Desk, error) {
	config, err := o.Config()
	if err != nil {
		return nil, fmt.Errorf("reading client configuration: %w", err)
	}
	return o.NewDesk(config, tracker)
}

func (o *GlobalOptions) printer() *printer {
	return &printer{out: o.out, format: o.Output}
}
