package daemon

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ddinu/doxybuild/internal/history"
	"github.com/ddinu/doxybuild/internal/metrics"
)

const statusPageTemplate = `<!DOCTYPE html>
<html>
<head><title>%s documentation builds</title></head>
<body>
<h1>%s documentation builds</h1>
%s
<h2>Recent builds</h2>
%s
</body>
</html>
`

// newHTTPServer builds the daemon's status/metrics server.
func (d *Daemon) newHTTPServer(registry *prom.Registry) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler(registry))

	mux.HandleFunc("/status.json", func(w http.ResponseWriter, _ *http.Request) {
		report := d.latestReport()
		if report == nil {
			http.Error(w, "no builds yet", http.StatusNotFound)
			return
		}
		data, err := report.JSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	mux.HandleFunc("/status", d.handleStatusPage)

	return &http.Server{
		Addr:              d.cfg.Daemon.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (d *Daemon) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	title := cases.Title(language.English).String(d.cfg.Project.Name)

	var reportHTML string
	if report := d.latestReport(); report != nil {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(report.Markdown()), &buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		reportHTML = buf.String()
	} else {
		reportHTML = "<p>No builds yet.</p>"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, statusPageTemplate, title, title, reportHTML, d.historyTable(r))
}

func (d *Daemon) historyTable(r *http.Request) string {
	if d.store == nil {
		return ""
	}
	records, err := d.store.Recent(r.Context(), 20)
	if err != nil || len(records) == 0 {
		return ""
	}

	var b bytes.Buffer
	b.WriteString("<table><tr><th>Build</th><th>Started</th><th>Duration</th><th>Outcome</th></tr>\n")
	for _, rec := range records {
		writeHistoryRow(&b, rec)
	}
	b.WriteString("</table>")
	return b.String()
}

func writeHistoryRow(b *bytes.Buffer, rec history.Record) {
	fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
		rec.BuildID,
		rec.StartedAt.Format(time.RFC3339),
		rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond),
		rec.Outcome)
}
