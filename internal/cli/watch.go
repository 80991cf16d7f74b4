package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/config"
	"github.com/supplydesk/desk/internal/notify"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/supplydesk/desk/internal/session"
	"github.com/supplydesk/desk/internal/suppliers"
	"github.com/supplydesk/desk/pkg/metrics"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

const watchHelp = `Commands:
  ls                             list the requests or tasks of the cabinet
  cabinet (user | moderator)     switch cabinet
  open ID                        open a request or a task
  show                           show the open request or task
  close                          close the open request or task
  expand POS                     expand or collapse the suppliers of a line item
  upload PATH                    upload a document
  submit ID                      submit a draft request
  delete ID                      delete a draft request
  start ID                       create the parsing tasks of a request
  parse ID [METHOD]              crawl the suppliers of a task
  status ID                      show the crawl progress of a task
  approve ID                     approve a task
  reject ID REASON               reject a task
  moderate URL_ID STATUS [INN]   approve or reject a crawled URL
  refresh                        refresh now
  conn                           show the connection status
  help                           show this help
  quit                           leave`

var errQuit = errors.New("quit")

type WatchOptions struct {
	GlobalOptions

	Cabinet          string
	RequestsInterval time.Duration
	TasksInterval    time.Duration
	MetricsAddress   string

	session session.Config
}

func DefaultWatchOptions() *WatchOptions {
	return &WatchOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Cabinet:       string(v1.CabinetUser),
		session:       session.DefaultConfig(),
	}
}

func NewCmdWatch() *cobra.Command {
	o := DefaultWatchOptions()
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Work with requests or tasks interactively while they are kept up to date",
		Example: `  desk watch
  desk watch --cabinet moderator --tasks-interval 2s`,
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *WatchOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Cabinet, "cabinet", o.Cabinet, "Cabinet to start in: user or moderator")
	fs.DurationVar(&o.RequestsInterval, "requests-interval", o.RequestsInterval, "How often requests are refreshed (default from DESK_REQUESTS_POLL_INTERVAL)")
	fs.DurationVar(&o.TasksInterval, "tasks-interval", o.TasksInterval, "How often tasks are refreshed (default from DESK_TASKS_POLL_INTERVAL)")
	fs.StringVar(&o.MetricsAddress, "metrics-address", o.MetricsAddress, "Serve prometheus metrics on this address (default from DESK_METRICS_ADDRESS)")
}

func (o *WatchOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	o.session = session.Config{
		RequestsInterval:  cfg.Polling.RequestsInterval,
		TasksInterval:     cfg.Polling.TasksInterval,
		Jitter:            cfg.Polling.Jitter,
		ParseRefreshDelay: cfg.Polling.ParseRefreshDelay,
		NotificationTTL:   cfg.Notification.TTL,
		StatusConcurrency: cfg.Polling.StatusConcurrency,
	}
	if cmd.Flags().Changed("requests-interval") {
		o.session.RequestsInterval = o.RequestsInterval
	}
	if cmd.Flags().Changed("tasks-interval") {
		o.session.TasksInterval = o.TasksInterval
	}
	if !cmd.Flags().Changed("metrics-address") {
		o.MetricsAddress = cfg.Service.MetricsAddress
	}
	return nil
}

func (o *WatchOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if _, err := v1.StringToCabinet(o.Cabinet); err != nil {
		return err
	}
	if o.session.RequestsInterval <= 0 || o.session.TasksInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	return nil
}

func (o *WatchOptions) Run(ctx context.Context, args []string) error {
	tracker := client.NewInterceptor()
	c, err := o.ClientWithTracker(tracker)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	cabinet, _ := v1.StringToCabinet(o.Cabinet)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if o.MetricsAddress != "" {
		listener, err := net.Listen("tcp", o.MetricsAddress)
		if err != nil {
			return fmt.Errorf("creating metrics listener: %w", err)
		}
		go func() {
			if err := metrics.NewMetricServer(o.MetricsAddress, listener).Run(ctx); err != nil {
				zap.S().Named("watch").Errorw("metrics server failed", "error", err)
			}
		}()
	}

	out := &lockedWriter{w: o.out}
	w := &watcher{out: out, printer: &printer{out: out, format: o.Output}, tracker: tracker}
	w.session = session.New(c, o.session, session.WithCabinet(cabinet), session.WithSink(w.notify))
	defer w.session.Close()

	if err := w.session.Start(ctx); err != nil {
		return err
	}
	w.lines = readLines(ctx, o.in)

	w.println(fmt.Sprintf("%s cabinet, type help for the commands", cabinet))
	return w.loop(ctx)
}

// readLines feeds the lines of in until it ends or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

type watcher struct {
	session *session.Session
	tracker *client.Interceptor
	printer *printer
	lines   <-chan string

	// last is what the notification lines showed last.
	last notify.Snapshot
	out  io.Writer
	mu   sync.Mutex
}

// lockedWriter serializes the writes of the prompt loop and the notification timers.
type lockedWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (w *watcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-w.lines:
			if !ok {
				return nil
			}
			if err := w.exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				w.println(err.Error())
			}
		}
	}
}

func (w *watcher) exec(ctx context.Context, line string) error { // nolint: gocyclo
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]
	cabinet := w.session.View().Cabinet

	switch command {
	case "help", "?":
		w.println(watchHelp)
	case "quit", "exit", "q":
		return errQuit
	case "ls", "list":
		return w.list()
	case "refresh":
		if !w.session.Refresh(ctx) {
			w.println("a refresh is already running")
			return nil
		}
		return w.list()
	case "conn":
		status := w.tracker.GetStatus()
		switch {
		case status.LastContact.IsZero():
			w.println("no contact with the server yet")
		case status.Connected:
			w.println(fmt.Sprintf("connected, last contact %s", status.LastContact.Format(time.TimeOnly)))
		default:
			w.println(fmt.Sprintf("disconnected since %s", status.LastContact.Format(time.TimeOnly)))
		}
		if status.LastError != nil {
			w.println("last error: " + status.LastError.Error())
		}
	case "cabinet":
		if len(args) != 1 {
			return usage("cabinet (user | moderator)")
		}
		next, err := v1.StringToCabinet(args[0])
		if err != nil {
			return err
		}
		if err := w.session.SwitchCabinet(ctx, next); err != nil {
			return err
		}
		w.println(fmt.Sprintf("%s cabinet", next))
	case "open":
		id, err := idArg(args, "open ID")
		if err != nil {
			return err
		}
		return w.open(ctx, cabinet, id)
	case "show":
		return w.show()
	case "close":
		w.session.CloseDetail()
	case "expand":
		if len(args) != 1 {
			return usage("expand POS")
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("expand POS")
		}
		if expanded, err := w.session.ToggleExpand(ctx, pos); err == nil && expanded {
			w.printEntry(pos, w.session.Suppliers().Entry(pos))
		}
	case "upload":
		if len(args) != 1 {
			return usage("upload PATH")
		}
		return w.upload(ctx, args[0])
	case "submit":
		id, err := idArg(args, "submit ID")
		if err != nil {
			return err
		}
		_, _ = w.session.Submit(ctx, id)
	case "delete":
		id, err := idArg(args, "delete ID")
		if err != nil {
			return err
		}
		if deleted, err := w.session.Delete(ctx, id, w.confirmer()); err == nil && !deleted {
			w.println("cancelled")
		}
	case "start":
		id, err := idArg(args, "start REQUEST_ID")
		if err != nil {
			return err
		}
		_, _ = w.session.StartParsing(ctx, id)
	case "parse":
		if len(args) < 1 || len(args) > 2 {
			return usage(fmt.Sprintf("parse ID [%s]", strings.Join(v1.ParseMethodNames(), " | ")))
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		method := v1.ParseMethodInProcess
		if len(args) == 2 {
			if method, err = v1.StringToParseMethod(args[1]); err != nil {
				return err
			}
		}
		_, _ = w.session.Parse(ctx, id, method)
	case "status":
		id, err := idArg(args, "status ID")
		if err != nil {
			return err
		}
		if progress, err := w.session.Status(ctx, id); err == nil {
			return w.printer.print(progress, func(tw *tabwriter.Writer) { printProgress(tw, progress) })
		}
	case "approve":
		id, err := idArg(args, "approve ID")
		if err != nil {
			return err
		}
		_ = w.session.Approve(ctx, id)
	case "reject":
		if len(args) < 1 {
			return usage("reject ID REASON")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_ = w.session.Reject(ctx, id, strings.Join(args[1:], " "))
	case "moderate":
		if len(args) < 2 || len(args) > 3 {
			return usage("moderate URL_ID (approved | rejected) [INN]")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form := v1.ModerateURLForm{Status: v1.TaskStatus(args[1])}
		if len(args) == 3 {
			form.Inn = args[2]
		}
		_, _ = w.session.ModerateURL(ctx, id, form)
	default:
		return fmt.Errorf("unknown command %q, type help for the commands", command)
	}
	return nil
}

func (w *watcher) list() error {
	if w.session.View().Cabinet == v1.CabinetModerator {
		tasks := w.session.Tasks()
		list := tasks.List()
		return w.printer.print(list, func(tw *tabwriter.Writer) { printTasksTable(tw, list, tasks.Progress) })
	}
	list := w.session.Requests().List()
	return w.printer.print(list, func(tw *tabwriter.Writer) { printRequestsTable(tw, list...) })
}

func (w *watcher) open(ctx context.Context, cabinet v1.Cabinet, id int64) error {
	if cabinet == v1.CabinetModerator {
		if _, err := w.session.SelectTask(ctx, id); err != nil {
			return nil
		}
	} else if _, err := w.session.SelectRequest(ctx, id); err != nil {
		return nil
	}
	return w.show()
}

// show prints the open detail with the suppliers of the expanded line items.
func (w *watcher) show() error {
	if _, detail, open := w.session.Tasks().Detail(); open && detail != nil {
		return w.printer.print(detail, func(tw *tabwriter.Writer) { printTaskDetail(tw, detail) })
	}
	_, detail, open := w.session.Requests().Detail()
	if !open || detail == nil {
		w.println("nothing is open")
		return nil
	}
	if err := w.printer.print(detail, func(tw *tabwriter.Writer) { printRequestDetail(tw, detail) }); err != nil {
		return err
	}
	for _, pos := range w.session.View().Expanded {
		w.printEntry(pos, w.session.Suppliers().Entry(pos))
	}
	return nil
}

func (w *watcher) printEntry(pos int, entry suppliers.Entry) {
	switch entry.State {
	case suppliers.Fetched:
		w.println(fmt.Sprintf("suppliers of line item %d:", pos))
		_ = w.printer.print(entry.Suppliers, func(tw *tabwriter.Writer) { printSuppliersTable(tw, entry.Suppliers...) })
	case suppliers.Empty:
		w.println(fmt.Sprintf("no suppliers found for line item %d", pos))
	}
}

func (w *watcher) upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	_, _ = w.session.Upload(ctx, filepath.Base(path), f)
	return nil
}

// confirmer asks on the next input line.
func (w *watcher) confirmer() repository.Confirmer {
	return repository.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		w.println(message + " [y/N]")
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case answer, ok := <-w.lines:
			if !ok {
				return false, nil
			}
			return funk.ContainsString([]string{"y", "yes"}, strings.ToLower(strings.TrimSpace(answer))), nil
		}
	})
}

// notify prints messages as they appear. Cleared messages print nothing.
func (w *watcher) notify(snap notify.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if snap.Error != "" && snap.Error != w.last.Error {
		fmt.Fprintf(w.out, "error: %s\n", snap.Error)
	}
	if snap.Success != "" && snap.Success != w.last.Success {
		fmt.Fprintf(w.out, "ok: %s\n", snap.Success)
	}
	w.last = snap
}

func (w *watcher) println(msg string) {
	fmt.Fprintln(w.out, msg)
}

func idArg(args []string, form string) (int64, error) {
	if len(args) != 1 {
		return 0, usage(form)
	}
	return parseID(args[0])
}

func usage(form string) error {
	return fmt.Errorf("usage: %s", form)
}
