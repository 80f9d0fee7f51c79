package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/mferrell/dealflow/internal/service"
)

// Emails are templated per event type; priority and due date feed the
// banner so urgent work stands out in the inbox.

var assignmentTmpl = template.Must(template.New("assignment").Parse(`<html>
<body>
<h2>Deal assigned: {{.DealName}}</h2>
<p>{{.Assignee}} is now responsible for <strong>{{.DealName}}</strong>.</p>
{{if .Banner}}<p style="color:#b00;"><strong>{{.Banner}}</strong></p>{{end}}
{{if .Due}}<p>Due: {{.Due}}</p>{{end}}
</body>
</html>`))

var statusChangeTmpl = template.Must(template.New("status_change").Parse(`<html>
<body>
<h2>Status changed: {{.DealName}}</h2>
<p><strong>{{.DealName}}</strong> moved from {{.OldStatus}} to <strong>{{.NewStatus}}</strong>.</p>
{{if .Banner}}<p style="color:#b00;"><strong>{{.Banner}}</strong></p>{{end}}
{{if .Due}}<p>Due: {{.Due}}</p>{{end}}
</body>
</html>`))

type emailData struct {
	DealName  string
	Assignee  string
	OldStatus string
	NewStatus string
	Banner    string
	Due       string
}

// renderEmail produces the subject and HTML body for an event.
func renderEmail(event service.TaskEvent) (string, string, error) {
	data := emailData{
		DealName:  event.DealName,
		Assignee:  event.Assignee,
		OldStatus: event.OldStatus,
		NewStatus: event.NewStatus,
	}
	if event.Priority != "" {
		data.Banner = fmt.Sprintf("%s priority", event.Priority)
	}
	if !event.DueDate.IsZero() {
		data.Due = event.DueDate.Format("Mon, 02 Jan 2006")
	}

	var subject string
	var tmpl *template.Template
	switch event.Kind {
	case service.EventAssignment:
		subject = fmt.Sprintf("[dealflow] %s assigned to %s", event.DealName, event.Assignee)
		tmpl = assignmentTmpl
	case service.EventStatusChange:
		subject = fmt.Sprintf("[dealflow] %s: %s -> %s", event.DealName, event.OldStatus, event.NewStatus)
		tmpl = statusChangeTmpl
	default:
		return "", "", fmt.Errorf("unknown event kind %q", event.Kind)
	}

	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s email: %w", event.Kind, err)
	}
	return subject, body.String(), nil
}
