package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	v1 "github.com/supplydesk/desk/api/v1"
	"sigs.k8s.io/yaml"
)

type printer struct {
	out    io.Writer
	format string
}

// print writes resource in the selected format. table renders the table form.
func (p *printer) print(resource any, table func(w *tabwriter.Writer)) error {
	switch p.format {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(resource, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Fprintf(p.out, "%s\n", string(marshalled))
		return nil
	case yamlFormat:
		marshalled, err := yaml.Marshal(resource)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Fprintf(p.out, "%s", string(marshalled))
		return nil
	default:
		w := tabwriter.NewWriter(p.out, 0, 8, 1, '\t', 0)
		table(w)
		return w.Flush()
	}
}

func printRequestsTable(w io.Writer, requests ...v1.Request) {
	fmt.Fprintln(w, "ID\tFILENAME\tSTATUS\tITEMS\tCONTACTS\tCREATED")
	for _, r := range requests {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n", r.Id, r.Filename, r.Status, r.ItemsCount, r.ContactsCount, when(r.CreatedAt))
	}
}

func printRequestDetail(w io.Writer, r *v1.RequestDetail) {
	fmt.Fprintf(w, "Request:\t%d\n", r.Id)
	fmt.Fprintf(w, "File:\t%s\n", r.Filename)
	fmt.Fprintf(w, "Status:\t%s\n", r.Status)
	fmt.Fprintf(w, "Created:\t%s\n", when(r.CreatedAt))
	fmt.Fprintln(w)
	printPositionsTable(w, r.Items...)
	if len(r.DbContacts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "SUPPLIER\tINN\tDOMAIN\tCONTACT\tPHONE\tEMAIL")
		for _, c := range r.DbContacts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.SupplierName, c.SupplierInn, c.SupplierDomain, c.ContactName, c.ContactPhone, c.ContactEmail)
		}
	}
}

func printPositionsTable(w io.Writer, items ...v1.Position) {
	fmt.Fprintln(w, "POS\tNAME\tQTY\tUNIT")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.Pos, item.Name, item.Qty, item.Unit)
	}
}

func printTasksTable(w io.Writer, tasks []v1.ParsingTask, progress func(id int64) (v1.TaskProgress, bool)) {
	fmt.Fprintln(w, "ID\tREQUEST\tITEM\tSTATUS\tURLS\tCREATED")
	for _, t := range tasks {
		urls := "-"
		if progress != nil {
			if p, found := progress(t.TaskId); found {
				urls = fmt.Sprint(p.UrlsFound)
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", t.TaskId, t.RequestId, t.ItemName, t.Status, urls, when(t.CreatedAt))
	}
}

func printTaskDetail(w io.Writer, t *v1.TaskDetail) {
	fmt.Fprintf(w, "Task:\t%d\n", t.TaskId)
	fmt.Fprintf(w, "Request:\t%d\n", t.RequestId)
	fmt.Fprintf(w, "Item:\t%s\n", t.ItemName)
	fmt.Fprintf(w, "Query:\t%s\n", t.SearchQuery)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "URL ID\tURL\tTITLE\tCOMPANY")
	for _, u := range t.Urls {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.Id, u.Url, u.Title, u.CompanyName)
	}
}

func printProgress(w io.Writer, p v1.TaskProgress) {
	fmt.Fprintf(w, "Task:\t%d\n", p.TaskId)
	fmt.Fprintf(w, "Status:\t%s\n", p.Status)
	fmt.Fprintf(w, "URLs found:\t%d\n", p.UrlsFound)
	if p.StartedAt != nil {
		fmt.Fprintf(w, "Started:\t%s\n", when(*p.StartedAt))
	}
	if p.CompletedAt != nil {
		fmt.Fprintf(w, "Completed:\t%s\n", when(*p.CompletedAt))
	}
}

func printSuppliersTable(w io.Writer, suppliers ...v1.Supplier) {
	fmt.Fprintln(w, "ID\tCOMPANY\tINN\tDOMAIN\tRATING")
	for _, s := range suppliers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\n", s.Id, s.CompanyName, s.Inn, s.Domain, s.Rating)
	}
}

func printSupplierDetail(w io.Writer, s *v1.SupplierDetail) {
	fmt.Fprintf(w, "Supplier:\t%d\n", s.Id)
	fmt.Fprintf(w, "Company:\t%s\n", s.CompanyName)
	fmt.Fprintf(w, "INN:\t%s\n", s.Inn)
	fmt.Fprintf(w, "Domain:\t%s\n", s.Domain)
	fmt.Fprintf(w, "Rating:\t%.1f\n", s.Rating)
	fmt.Fprintf(w, "Source:\t%s\n", s.Source)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "NAME\tPOSITION\tPHONE\tEMAIL")
	for _, c := range s.Contacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Position, c.Phone, c.Email)
	}
}

func when(t v1.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
