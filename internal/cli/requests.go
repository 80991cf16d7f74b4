package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/supplydesk/desk/internal/repository"
)

type options interface {
	Complete(cmd *cobra.Command, args []string) error
	Validate(args []string) error
	Run(ctx context.Context, args []string) error
}

func runE(o options) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := o.Complete(cmd, args); err != nil {
			return err
		}
		if err := o.Validate(args); err != nil {
			return err
		}
		return o.Run(cmd.Context(), args)
	}
}

// IDOptions are the options of commands acting on a single entity id.
type IDOptions struct {
	GlobalOptions
}

func (o *IDOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	_, err := parseID(args[0])
	return err
}

type SubmitOptions struct {
	IDOptions
}

func NewCmdSubmit() *cobra.Command {
	o := &SubmitOptions{IDOptions{GlobalOptions: DefaultGlobalOptions()}}
	cmd := &cobra.Command{
		Use:          "submit REQUEST_ID",
		Short:        "Submit a draft request for moderation",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *SubmitOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	id, _ := parseID(args[0])

	requests := repository.NewRequestRepository(c)
	if err := requests.Refresh(ctx); err != nil {
		return fmt.Errorf("listing requests: %w", err)
	}
	result, err := requests.Submit(ctx, id)
	if err != nil {
		return fmt.Errorf("submitting %s/%d: %w", RequestKind, id, err)
	}
	return o.printer().print(result, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Request %d is now %s\n", result.RequestId, result.NewStatus)
	})
}
