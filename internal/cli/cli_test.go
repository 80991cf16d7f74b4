package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/supplydesk/desk/internal/cli"
	"github.com/supplydesk/desk/internal/client"
	"github.com/xuri/excelize/v2"
)

// fakeDesk serves a small procurement API and records the calls it gets.
type fakeDesk struct {
	calls  []string
	bodies map[string]map[string]any
	mu     sync.Mutex
}

func (f *fakeDesk) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeDesk) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeDesk) body(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *fakeDesk) decode(r *http.Request) {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[r.URL.Path] = body
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeDesk) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.record(req)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/user/requests", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 7, "filename": "pumps.xlsx", "status": "draft", "items_count": 2, "contacts_count": 0},
				{"id": 8, "filename": "valves.pdf", "status": "submitted", "items_count": 5, "contacts_count": 1},
			})
		})
		r.Get("/user/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"id": 7, "filename": "pumps.xlsx", "status": "draft",
				"items": []map[string]any{
					{"pos": 3, "name": "Bearing 608", "unit": "pcs", "qty": "10,5"},
					{"pos": 4, "name": "Bolt M8", "unit": "pcs", "qty": 200},
				},
				"db_contacts": []any{},
			})
		})
		r.Delete("/user/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "deleted_id": 7})
		})
		r.Post("/user/upload-and-create", func(w http.ResponseWriter, r *http.Request) {
			_, header, err := r.FormFile(client.UploadFormField)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "request_id": 9, "filename": header.Filename, "items": 2})
		})
		r.Get("/moderator/tasks", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{{"task_id": 42, "request_id": 7, "item_name": "Bearing 608", "status": "pending"}})
		})
		r.Get("/moderator/tasks/{id}/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"task_id": 42, "status": "pending", "urls_found": 3})
		})
		r.Post("/moderator/tasks/{id}/parse", func(w http.ResponseWriter, r *http.Request) {
			f.decode(r)
			writeJSON(w, http.StatusOK, map[string]any{"task_id": 41, "status": "started", "method": "patchright"})
		})
		r.Post("/moderator/tasks/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
			f.decode(r)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/suppliers/search", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "company_name": "Bearings Inc", "inn": "7701234567", "rating": 4.5}})
		})
	})
	return r
}

var _ = Describe("desk commands", func() {
	var (
		fake   *fakeDesk
		server *httptest.Server
		dir    string
		out    *bytes.Buffer
	)

	run := func(cmd *cobra.Command, stdin string, args ...string) error {
		out.Reset()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetArgs(append(args, "--server-url", server.URL, "--config", filepath.Join(dir, "client.yaml")))
		return cmd.ExecuteContext(context.Background())
	}

	BeforeEach(func() {
		fake = &fakeDesk{bodies: map[string]map[string]any{}}
		server = httptest.NewServer(fake.router())
		dir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		server.Close()
	})

	Context("get", func() {
		It("prints the requests as a table", func() {
			Expect(run(cli.NewCmdGet(), "", "requests")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("pumps.xlsx"))
			Expect(out.String()).To(ContainSubstring("valves.pdf"))
		})

		It("prints a request as json", func() {
			Expect(run(cli.NewCmdGet(), "", "request/7", "-o", "json")).To(Succeed())

			var detail map[string]any
			Expect(json.Unmarshal(out.Bytes(), &detail)).To(Succeed())
			Expect(detail["id"]).To(BeEquivalentTo(7))
			items := detail["items"].([]any)
			Expect(items[0].(map[string]any)["qty"]).To(BeEquivalentTo(10.5))
		})

		It("lists pending tasks with their progress", func() {
			Expect(run(cli.NewCmdGet(), "", "tasks")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Bearing 608"))
			Expect(fake.called("GET /api/v1/moderator/tasks/42/status")).To(Equal(1))
		})

		It("refuses an unknown kind", func() {
			Expect(run(cli.NewCmdGet(), "", "invoices")).To(MatchError(ContainSubstring("invalid resource kind")))
		})

		It("refuses an unknown output format", func() {
			Expect(run(cli.NewCmdGet(), "", "requests", "-o", "xml")).To(MatchError(ContainSubstring("output format")))
		})
	})

	Context("delete", func() {
		It("deletes a draft without asking when --yes is given", func() {
			Expect(run(cli.NewCmdDelete(), "", "7", "--yes")).To(Succeed())
			Expect(fake.called("DELETE /api/v1/user/requests/7")).To(Equal(1))
			Expect(out.String()).To(ContainSubstring("Request 7 deleted"))
		})

		It("refuses a request that is not a draft", func() {
			err := run(cli.NewCmdDelete(), "", "8", "--yes")
			Expect(client.IsInvalidState(err)).To(BeTrue())
			Expect(fake.called("DELETE /api/v1/user/requests/8")).To(Equal(0))
		})
	})

	Context("tasks", func() {
		It("never sends an empty reject reason", func() {
			err := run(cli.NewCmdReject(), "", "42", "--reason", "  ")
			Expect(client.IsValidation(err)).To(BeTrue())
			Expect(fake.called("POST /api/v1/moderator/tasks/42/reject")).To(Equal(0))
		})

		It("sends the reject reason", func() {
			Expect(run(cli.NewCmdReject(), "", "42", "--reason", "low confidence")).To(Succeed())
			Expect(fake.body("/api/v1/moderator/tasks/42/reject")["reason"]).To(Equal("low confidence"))
		})

		It("sends the wire value of the parse method", func() {
			Expect(run(cli.NewCmdParse(), "", "41", "--method", "browser-automation")).To(Succeed())
			Expect(fake.body("/api/v1/moderator/tasks/41/parse")["method"]).To(Equal("patchright"))
		})

		It("refuses an unknown parse method", func() {
			err := run(cli.NewCmdParse(), "", "41", "--method", "selenium")
			Expect(client.IsValidation(err)).To(BeTrue())
		})

		It("refuses a bad id", func() {
			Expect(run(cli.NewCmdStatus(), "", "abc")).To(MatchError(ContainSubstring("invalid id")))
		})
	})

	Context("upload", func() {
		It("uploads the document", func() {
			path := filepath.Join(dir, "order.pdf")
			Expect(os.WriteFile(path, []byte("%PDF-1.4"), 0600)).To(Succeed())

			Expect(run(cli.NewCmdUpload(), "", "--file-path", path)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Request 9 created from order.pdf with 2 items"))
		})

		It("previews an xlsx document without uploading it", func() {
			path := filepath.Join(dir, "order.xlsx")
			f := excelize.NewFile()
			Expect(f.SetSheetRow("Sheet1", "A1", &[]any{"No", "Item", "Unit", "Qty"})).To(Succeed())
			Expect(f.SetSheetRow("Sheet1", "A2", &[]any{"1", "Bearing 608", "pcs", "10,5"})).To(Succeed())
			Expect(f.SaveAs(path)).To(Succeed())

			Expect(run(cli.NewCmdUpload(), "", "--file-path", path, "--preview")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Bearing 608"))
			Expect(out.String()).To(ContainSubstring("10.5"))
			Expect(fake.called("POST /api/v1/user/upload-and-create")).To(Equal(0))
		})

		It("refuses an unsupported format", func() {
			err := run(cli.NewCmdUpload(), "", "--file-path", filepath.Join(dir, "order.csv"))
			Expect(client.IsUpload(err)).To(BeTrue())
		})
	})

	Context("configure", func() {
		It("writes the server to the configuration file", func() {
			Expect(run(cli.NewCmdConfigure(), "")).To(Succeed())

			config, err := client.ParseConfigFile(filepath.Join(dir, "client.yaml"))
			Expect(err).To(BeNil())
			Expect(config.Service.Server).To(Equal(server.URL))
		})
	})

	Context("watch", func() {
		It("opens a request and expands a line item once", func() {
			Expect(run(cli.NewCmdWatch(), "open 7\nexpand 3\nexpand 3\nexpand 3\nquit\n", "--requests-interval", "1h")).To(Succeed())

			Expect(out.String()).To(ContainSubstring("Bearing 608"))
			Expect(out.String()).To(ContainSubstring("Bearings Inc"))
			Expect(fake.called("GET /api/v1/suppliers/search")).To(Equal(1))
		})

		It("asks before deleting a draft", func() {
			Expect(run(cli.NewCmdWatch(), "delete 7\nn\nquit\n", "--requests-interval", "1h")).To(Succeed())

			Expect(out.String()).To(ContainSubstring("Delete request 7? [y/N]"))
			Expect(out.String()).To(ContainSubstring("cancelled"))
			Expect(fake.called("DELETE /api/v1/user/requests/7")).To(Equal(0))
		})

		It("reports unknown commands", func() {
			Expect(run(cli.NewCmdWatch(), "frobnicate\n", "--requests-interval", "1h")).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`unknown command "frobnicate"`))
		})
	})
})
