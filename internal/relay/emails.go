package relay

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/michael-berardi/harborform/internal/models"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "lead"}}<h2>New lead: {{.Company}}</h2>
<table cellpadding="4">
<tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
<tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
<tr><td><strong>Company</strong></td><td>{{.Company}}</td></tr>
{{with .Phone}}<tr><td><strong>Phone</strong></td><td>{{.}}</td></tr>{{end}}
{{with .Website}}<tr><td><strong>Website</strong></td><td>{{.}}</td></tr>{{end}}
{{with .Industry}}<tr><td><strong>Industry</strong></td><td>{{.}}</td></tr>{{end}}
{{with .Timeline}}<tr><td><strong>Timeline</strong></td><td>{{.}}</td></tr>{{end}}
{{with .Budget}}<tr><td><strong>Budget</strong></td><td>{{.}}</td></tr>{{end}}
</table>
<h3>Goals</h3><p>{{.Goals}}</p>
{{with .WhatsWorking}}<h3>What's working</h3><p>{{.}}</p>{{end}}
{{with .WhatsNot}}<h3>What's not</h3><p>{{.}}</p>{{end}}
{{end}}

{{define "audit_operator"}}<h2>Audit booked: {{.Company}}</h2>
<p><strong>{{.Name}}</strong> (<a href="mailto:{{.Email}}">{{.Email}}</a>{{with .Phone}}, {{.}}{{end}})
asked for an audit on <strong>{{.PreferredDate}}</strong> at <strong>{{.PreferredTime}}</strong>.</p>
{{with .Website}}<p>Website: {{.}}</p>{{end}}
<h3>Goals</h3><p>{{.Goals}}</p>
{{end}}

{{define "audit_confirmation"}}<p>Hi {{.Name}},</p>
<p>Thanks for booking a growth audit for {{.Company}}. We have you down for
<strong>{{.PreferredDate}}</strong> at <strong>{{.PreferredTime}}</strong>.</p>
<p>We'll review your goals before the call:</p>
<blockquote>{{.Goals}}</blockquote>
<p>If that time no longer works, just reply to this email.</p>
{{end}}
`))

func render(name string, lead models.Lead) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, lead); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func leadNotification(to string, lead models.Lead) (Message, error) {
	html, err := render("lead", lead)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ToEmail: to,
		ReplyTo: lead.Email,
		Subject: fmt.Sprintf("New lead: %s (%s)", lead.Company, lead.Name),
		Text:    fmt.Sprintf("%s <%s> from %s: %s", lead.Name, lead.Email, lead.Company, lead.Goals),
		HTML:    html,
	}, nil
}

func auditOperatorNotification(to string, lead models.Lead) (Message, error) {
	html, err := render("audit_operator", lead)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ToEmail: to,
		ReplyTo: lead.Email,
		Subject: fmt.Sprintf("Audit booked: %s on %s %s", lead.Company, lead.PreferredDate, lead.PreferredTime),
		Text:    fmt.Sprintf("%s <%s> from %s booked %s %s", lead.Name, lead.Email, lead.Company, lead.PreferredDate, lead.PreferredTime),
		HTML:    html,
	}, nil
}

func auditConfirmation(lead models.Lead) (Message, error) {
	html, err := render("audit_confirmation", lead)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ToEmail: lead.Email,
		ToName:  lead.Name,
		Subject: "Your audit is booked",
		Text:    fmt.Sprintf("Thanks %s, your audit is booked for %s at %s.", lead.Name, lead.PreferredDate, lead.PreferredTime),
		HTML:    html,
	}, nil
}
