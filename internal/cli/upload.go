package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/document"
	"github.com/supplydesk/desk/internal/repository"
	"github.com/thoas/go-funk"
)

type UploadOptions struct {
	GlobalOptions

	filePath string
	preview  bool
}

func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdUpload() *cobra.Command {
	o := DefaultUploadOptions()
	cmd := &cobra.Command{
		Use:          "upload",
		Short:        "Upload a procurement document and create a draft request",
		Example:      "upload --file-path /path/to/order.xlsx",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())

	if err := validateFlags(cmd, "file-path"); err != nil {
		panic(err)
	}

	return cmd
}

// validateFlags marks flags as required and says so in their usage.
func validateFlags(cmd *cobra.Command, requiredFlags ...string) error {
	for _, flag := range requiredFlags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			return err
		}
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if funk.ContainsString(requiredFlags, f.Name) {
			f.Usage = fmt.Sprintf("%s (required)", f.Usage)
		}
	})

	return nil
}

func (o *UploadOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.filePath, "file-path", o.filePath, "Path to the document (.pdf, .docx or .xlsx) to upload")
	fs.BoolVar(&o.preview, "preview", o.preview, "Only show the line items of an .xlsx document, do not upload it")
}

func (o *UploadOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !client.AllowedUpload(o.filePath) {
		return client.NewErrUpload("unsupported document format %q: expected .pdf, .docx or .xlsx", filepath.Ext(o.filePath))
	}
	return nil
}

func (o *UploadOptions) Run(ctx context.Context, args []string) error {
	if o.preview {
		return o.runPreview()
	}

	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	f, err := os.Open(o.filePath)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	result, err := repository.NewRequestRepository(c).Upload(ctx, filepath.Base(o.filePath), f)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", o.filePath, err)
	}

	return o.printer().print(result, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Request %d created from %s with %d items\n", result.RequestId, result.Filename, result.Items)
		if result.DbContactsFound > 0 {
			fmt.Fprintf(w, "%d known supplier contacts found\n", result.DbContactsFound)
		}
	})
}

func (o *UploadOptions) runPreview() error {
	preview, err := document.PreviewFile(o.filePath)
	if errors.Is(err, document.ErrUnsupportedPreview) {
		return fmt.Errorf("%w, %s is read by the server only", err, filepath.Base(o.filePath))
	}
	if err != nil {
		return fmt.Errorf("previewing %s: %w", o.filePath, err)
	}

	return o.printer().print(preview.Items, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%s (sheet %s): %d items, %d other rows\n\n", preview.Filename, preview.Sheet, len(preview.Items), preview.Skipped)
		printPositionsTable(w, preview.Items...)
	})
}
