package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/supplydesk/desk/internal/suppliers"
)

type GetOptions struct {
	GlobalOptions

	Skip  int
	Limit int
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Limit:         suppliers.DefaultPageSize,
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (TYPE | TYPE/ID)",
		Short: "Display one or many resources.",
		Example: `  desk get requests
  desk get request/7
  desk get tasks -o yaml
  desk get suppliers --skip 20 --limit 10`,
		Args: cobra.ExactArgs(1),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.IntVar(&o.Skip, "skip", o.Skip, "Number of suppliers to skip when listing suppliers")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Maximum number of suppliers to list")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if _, _, err := parseAndValidateKindId(args[0]); err != nil {
		return err
	}
	if o.Skip < 0 {
		return fmt.Errorf("--skip must not be negative")
	}
	if o.Limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error { // nolint: gocyclo
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	errorPrefix := fmt.Sprintf("listing %s", plural(kind))
	if id != nil {
		errorPrefix = fmt.Sprintf("reading %s/%d", kind, *id)
	}

	p := o.printer()
	switch {
	case kind == RequestKind && id == nil:
		requests := repository.NewRequestRepository(c)
		if err := requests.Refresh(ctx); err != nil {
			return fmt.Errorf("%s: %w", errorPrefix, err)
		}
		list := requests.List()
		return p.print(list, func(w *tabwriter.Writer) { printRequestsTable(w, list...) })
	case kind == RequestKind:
		detail, err := c.GetRequest(ctx, *id)
		if err != nil {
			return fmt.Errorf("%s: %w", errorPrefix, err)
		}
		return p.print(detail, func(w *tabwriter.Writer) { printRequestDetail(w, detail) })
	case kind == TaskKind && id == nil:
		tasks := repository.NewTaskRepository(c, repository.DefaultStatusConcurrency)
		if err := tasks.Refresh(ctx); err != nil {
			return fmt.Errorf("%s: %w", errorPrefix, err)
		}
		list := tasks.List()
		return p.print(list, func(w *tabwriter.Writer) { printTasksTable(w, list, tasks.Progress) })
	case kind == TaskKind:
		detail, err := c.GetTask(ctx, *id)
		if err != nil {
			return fmt.Errorf("%s: %w", errorPrefix, err)
		}
		return p.print(detail, func(w *tabwriter.Writer) { printTaskDetail(w, detail) })
	case kind == SupplierKind && id == nil:
		page, err := suppliers.NewDirectory(c).Browse(ctx, o.Skip, o.Limit)
		if err != nil {
			return fmt.Errorf("%s: %w", errorPrefix, err)
		}
		return p.print(page, func(w *tabwriter.Writer) { printSuppliersTable(w, page...) })
	case kind == SupplierKind:
		detail, err := suppliers.NewDirectory(c).Get(ctx, *id)
		if err != nil {
			return fmt.Errorf("%s: %w", errorPrefix, err)
		}
		return p.print(detail, func(w *tabwriter.Writer) { printSupplierDetail(w, detail) })
	default:
		return fmt.Errorf("unsupported resource kind: %s", kind)
	}
}
