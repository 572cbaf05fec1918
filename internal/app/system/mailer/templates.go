// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// NoticeData fills the shared notification layout.
type NoticeData struct {
	SiteName  string
	Name      string
	Headline  string
	Lines     []string
	ActionURL string
	Action    string
}

// BuildNotice renders a notification with both HTML and text bodies.
func BuildNotice(to, subject string, data NoticeData) Email {
	return Email{
		To:       to,
		ToName:   data.Name,
		Subject:  subject,
		TextBody: buildNoticeText(data),
		HTMLBody: buildNoticeHTML(data),
	}
}

// ApplicationStatusEmail tells a student their course application was decided.
func ApplicationStatusEmail(site, baseURL, to, name, institution, status string, courses []string) Email {
	lines := []string{
		fmt.Sprintf("Your application to %s has been marked %s.", institution, status),
	}
	if len(courses) > 0 {
		lines = append(lines, "Courses: "+strings.Join(courses, ", "))
	}
	return BuildNotice(to, fmt.Sprintf("%s: application %s", site, strings.ToLower(status)), NoticeData{
		SiteName:  site,
		Name:      name,
		Headline:  "Application update",
		Lines:     lines,
		ActionURL: baseURL,
		Action:    "View applications",
	})
}

// AdmissionPublishedEmail tells a student an admission is waiting for them.
func AdmissionPublishedEmail(site, baseURL, to, name, institution string, courses []string) Email {
	lines := []string{
		fmt.Sprintf("%s has published your admission.", institution),
		"Confirm one admission to secure your place. Confirming releases any other admissions you hold.",
	}
	if len(courses) > 0 {
		lines = append(lines, "Courses: "+strings.Join(courses, ", "))
	}
	return BuildNotice(to, fmt.Sprintf("%s: you have been admitted to %s", site, institution), NoticeData{
		SiteName:  site,
		Name:      name,
		Headline:  "Congratulations",
		Lines:     lines,
		ActionURL: baseURL,
		Action:    "Review admissions",
	})
}

// JobApplicationStatusEmail tells a student a company reviewed their application.
func JobApplicationStatusEmail(site, baseURL, to, name, jobTitle, status string) Email {
	return BuildNotice(to, fmt.Sprintf("%s: %s application %s", site, jobTitle, strings.ToLower(status)), NoticeData{
		SiteName:  site,
		Name:      name,
		Headline:  "Job application update",
		Lines:     []string{fmt.Sprintf("Your application for %s is now %s.", jobTitle, status)},
		ActionURL: baseURL,
		Action:    "View job applications",
	})
}

func buildNoticeText(data NoticeData) string {
	var buf bytes.Buffer
	if data.Name != "" {
		fmt.Fprintf(&buf, "Hi %s,\n\n", data.Name)
	}
	for _, l := range data.Lines {
		buf.WriteString(l + "\n")
	}
	if data.ActionURL != "" {
		fmt.Fprintf(&buf, "\n%s: %s\n", data.Action, data.ActionURL)
	}
	fmt.Fprintf(&buf, "\n%s\n", data.SiteName)
	return buf.String()
}

var noticeTmpl = template.Must(template.New("notice").Parse(noticeHTMLTemplate))

func buildNoticeHTML(data NoticeData) string {
	var buf bytes.Buffer
	_ = noticeTmpl.Execute(&buf, data)
	return buf.String()
}

const noticeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Headline}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 520px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px; font-size: 18px; color: #1f2937;">{{.Headline}}</h2>
              {{if .Name}}<p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.Name}},</p>{{end}}
              {{range .Lines}}<p style="margin: 0 0 12px; font-size: 15px; color: #374151; line-height: 1.5;">{{.}}</p>{{end}}
              {{if .ActionURL}}
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin-top: 24px;">
                <tr>
                  <td align="center">
                    <a href="{{.ActionURL}}" style="display: inline-block; padding: 12px 28px; background-color: #0f766e; color: #ffffff; text-decoration: none; font-size: 15px; border-radius: 6px;">{{.Action}}</a>
                  </td>
                </tr>
              </table>
              {{end}}
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
