package daemon

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/ddinu/doxybuild/internal/pipeline"
)

// Publisher emits completed build reports to NATS so external consumers
// (deploy jobs, dashboards) can react to documentation rebuilds.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the NATS server. Returns an error rather than a
// degraded publisher; the daemon treats publishing as optional and only
// constructs one when a URL is configured.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("Connected to NATS for build events", slog.String("url", url), slog.String("subject", subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// PublishReport publishes the report as JSON on the configured subject.
func (p *Publisher) PublishReport(report *pipeline.BuildReport) error {
	data, err := report.JSON()
	if err != nil {
		return fmt.Errorf("failed to serialize build report: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish build event: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
