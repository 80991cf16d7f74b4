package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/thoas/go-funk"
)

// taskRepository lists the pending tasks first, so decisions on settled tasks are refused
// without a call.
func (o *GlobalOptions) taskRepository(ctx context.Context) (*repository.TaskRepository, error) {
	c, err := o.Client()
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	tasks := repository.NewTaskRepository(c, repository.DefaultStatusConcurrency)
	if err := tasks.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

type ApproveOptions struct {
	IDOptions
}

func NewCmdApprove() *cobra.Command {
	o := &ApproveOptions{IDOptions{GlobalOptions: DefaultGlobalOptions()}}
	cmd := &cobra.Command{
		Use:          "approve TASK_ID",
		Short:        "Approve a parsing task",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ApproveOptions) Run(ctx context.Context, args []string) error {
	tasks, err := o.taskRepository(ctx)
	if err != nil {
		return err
	}
	id, _ := parseID(args[0])
	if err := tasks.Approve(ctx, id); err != nil {
		return fmt.Errorf("approving %s/%d: %w", TaskKind, id, err)
	}
	fmt.Fprintf(o.out, "Task %d approved\n", id)
	return nil
}

type RejectOptions struct {
	IDOptions

	Reason string
}

func NewCmdReject() *cobra.Command {
	o := &RejectOptions{IDOptions: IDOptions{GlobalOptions: DefaultGlobalOptions()}}
	cmd := &cobra.Command{
		Use:          "reject TASK_ID --reason TEXT",
		Short:        "Reject a parsing task",
		Example:      `reject 42 --reason "low confidence"`,
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	if err := validateFlags(cmd, "reason"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *RejectOptions) Bind(fs *pflag.FlagSet) {
	o.IDOptions.Bind(fs)

	fs.StringVarP(&o.Reason, "reason", "r", o.Reason, "Why the task is rejected")
}

func (o *RejectOptions) Validate(args []string) error {
	if err := o.IDOptions.Validate(args); err != nil {
		return err
	}
	if strings.TrimSpace(o.Reason) == "" {
		return client.NewErrValidation("--reason must not be empty")
	}
	return nil
}

func (o *RejectOptions) Run(ctx context.Context, args []string) error {
	tasks, err := o.taskRepository(ctx)
	if err != nil {
		return err
	}
	id, _ := parseID(args[0])
	if err := tasks.Reject(ctx, id, o.Reason); err != nil {
		return fmt.Errorf("rejecting %s/%d: %w", TaskKind, id, err)
	}
	fmt.Fprintf(o.out, "Task %d rejected\n", id)
	return nil
}

type ParseOptions struct {
	IDOptions

	Method string
}

func NewCmdParse() *cobra.Command {
	o := &ParseOptions{
		IDOptions: IDOptions{GlobalOptions: DefaultGlobalOptions()},
		Method:    string(v1.ParseMethodInProcess),
	}
	cmd := &cobra.Command{
		Use:          "parse TASK_ID",
		Short:        "Start the supplier crawl of a parsing task",
		Example:      "parse 41 --method browser-automation",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ParseOptions) Bind(fs *pflag.FlagSet) {
	o.IDOptions.Bind(fs)

	fs.StringVarP(&o.Method, "method", "m", o.Method, fmt.Sprintf("Crawl method. One of: (%s).", strings.Join(v1.ParseMethodNames(), ", ")))
}

func (o *ParseOptions) Validate(args []string) error {
	if err := o.IDOptions.Validate(args); err != nil {
		return err
	}
	if _, err := v1.StringToParseMethod(o.Method); err != nil {
		return client.NewErrValidation("%v", err)
	}
	return nil
}

func (o *ParseOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	id, _ := parseID(args[0])
	method, err := v1.StringToParseMethod(o.Method)
	if err != nil {
		return err
	}

	result, err := repository.NewTaskRepository(c, repository.DefaultStatusConcurrency).Parse(ctx, id, method)
	if err != nil {
		return fmt.Errorf("parsing %s/%d: %w", TaskKind, id, err)
	}
	return o.printer().print(result, func(w *tabwriter.Writer) {
		msg := result.Message
		if msg == "" {
			msg = fmt.Sprintf("Parsing of task %d %s", result.TaskId, result.Status)
		}
		fmt.Fprintln(w, msg)
	})
}

type StartParsingOptions struct {
	IDOptions
}

func NewCmdStartParsing() *cobra.Command {
	o := &StartParsingOptions{IDOptions{GlobalOptions: DefaultGlobalOptions()}}
	cmd := &cobra.Command{
		Use:          "start-parsing REQUEST_ID",
		Short:        "Create the parsing tasks of a request",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *StartParsingOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	id, _ := parseID(args[0])

	result, err := repository.NewTaskRepository(c, repository.DefaultStatusConcurrency).StartParsing(ctx, id)
	if err != nil {
		return fmt.Errorf("starting parsing of %s/%d: %w", RequestKind, id, err)
	}
	return o.printer().print(result, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%d tasks created for request %d\n", result.TasksCreated, result.RequestId)
	})
}

type StatusOptions struct {
	IDOptions
}

func NewCmdStatus() *cobra.Command {
	o := &StatusOptions{IDOptions{GlobalOptions: DefaultGlobalOptions()}}
	cmd := &cobra.Command{
		Use:          "status TASK_ID",
		Short:        "Show the crawl progress of a pending task",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *StatusOptions) Run(ctx context.Context, args []string) error {
	tasks, err := o.taskRepository(ctx)
	if err != nil {
		return err
	}
	id, _ := parseID(args[0])

	progress, err := tasks.Status(ctx, id)
	if err != nil {
		return fmt.Errorf("reading status of %s/%d: %w", TaskKind, id, err)
	}
	return o.printer().print(progress, func(w *tabwriter.Writer) { printProgress(w, progress) })
}

type ModerateOptions struct {
	IDOptions

	Status  string
	Inn     string
	Contact map[string]string
}

func NewCmdModerate() *cobra.Command {
	o := &ModerateOptions{IDOptions: IDOptions{GlobalOptions: DefaultGlobalOptions()}}
	cmd := &cobra.Command{
		Use:          "moderate URL_ID --status (approved | rejected)",
		Short:        "Approve or reject a crawled supplier URL",
		Example:      "moderate 900 --status approved --inn 7701234567 --contact email=sales@bearings.test",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	if err := validateFlags(cmd, "status"); err != nil {
		panic(err)
	}
	return cmd
}

func (o *ModerateOptions) Bind(fs *pflag.FlagSet) {
	o.IDOptions.Bind(fs)

	fs.StringVarP(&o.Status, "status", "s", o.Status, "Moderation decision: approved or rejected")
	fs.StringVar(&o.Inn, "inn", o.Inn, "Taxpayer number of the supplier")
	fs.StringToStringVar(&o.Contact, "contact", o.Contact, "Contact details as key=value pairs")
}

func (o *ModerateOptions) Validate(args []string) error {
	if err := o.IDOptions.Validate(args); err != nil {
		return err
	}
	allowed := []string{string(v1.TaskStatusApproved), string(v1.TaskStatusRejected)}
	if !funk.ContainsString(allowed, o.Status) {
		return client.NewErrValidation("--status must be one of %s", strings.Join(allowed, ", "))
	}
	return nil
}

func (o *ModerateOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	id, _ := parseID(args[0])

	form := v1.ModerateURLForm{
		Status:      v1.TaskStatus(o.Status),
		Inn:         o.Inn,
		ContactInfo: o.Contact,
	}
	result, err := repository.NewTaskRepository(c, repository.DefaultStatusConcurrency).ModerateURL(ctx, id, form)
	if err != nil {
		return fmt.Errorf("moderating url %d: %w", id, err)
	}
	return o.printer().print(result, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "URL %d %s\n", result.UrlId, result.ModerationStatus)
	})
}
