package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/supplydesk/desk/internal/repository"
)

type DeleteOptions struct {
	GlobalOptions

	Yes bool
}

func DefaultDeleteOptions() *DeleteOptions {
	return &DeleteOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdDelete() *cobra.Command {
	o := DefaultDeleteOptions()
	cmd := &cobra.Command{
		Use:   "delete REQUEST_ID",
		Short: "Delete a draft request.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *DeleteOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVarP(&o.Yes, "yes", "y", o.Yes, "Do not ask for confirmation")
}

func (o *DeleteOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	_, err := parseID(args[0])
	return err
}

func (o *DeleteOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	id, _ := parseID(args[0])

	confirmer := promptConfirmer(o.in, o.out)
	if o.Yes {
		confirmer = repository.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
			return true, nil
		})
	}

	requests := repository.NewRequestRepository(c)
	if err := requests.Refresh(ctx); err != nil {
		return fmt.Errorf("listing requests: %w", err)
	}
	deleted, err := requests.Delete(ctx, id, confirmer)
	if err != nil {
		return fmt.Errorf("deleting %s/%d: %w", RequestKind, id, err)
	}
	if !deleted {
		fmt.Fprintln(o.out, "Cancelled")
		return nil
	}
	fmt.Fprintf(o.out, "Request %d deleted\n", id)
	return nil
}
