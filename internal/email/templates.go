package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var dailyTemplate = template.Must(template.New("daily").Parse(`
<div style="font-family: sans-serif; max-width: 600px;">
  <h2>Good morning, {{.Name}}!</h2>
  <p>Here is your task summary for {{.Date.Format "Mon, 2 Jan 2006"}}.</p>
  <ul>
    <li><strong>{{.TodoCount}}</strong> open task(s)</li>
    <li><strong>{{.OverdueCount}}</strong> overdue</li>
  </ul>
  {{if .UrgentTasks}}
  <h3>Needs attention today</h3>
  <ul>
    {{range .UrgentTasks}}
    <li>{{.Title}}{{if .Deadline}} &mdash; due {{.Deadline.Format "2 Jan"}}{{end}}</li>
    {{end}}
  </ul>
  {{end}}
  <p>Keep it up!<br>UniTask</p>
</div>
`))

var weeklyTemplate = template.Must(template.New("weekly").Parse(`
<div style="font-family: sans-serif; max-width: 600px;">
  <h2>Weekly wrap-up for {{.Name}}</h2>
  <p>You completed <strong>{{.CompletedThisWeek}}</strong> task(s) in the last 7 days.</p>
  {{if .TotalCommits}}<p>Commits pushed: <strong>{{.TotalCommits}}</strong></p>{{end}}
  {{if .Groups}}
  <h3>Team progress</h3>
  <ul>
    {{range .Groups}}
    <li>{{.Name}}: {{.Progress}}% ({{.CompletedTasks}}/{{.TotalTasks}} tasks done)</li>
    {{end}}
  </ul>
  {{end}}
  <p>See you next week!<br>UniTask</p>
</div>
`))

// RenderDailyDigest renders the daily digest email body.
func RenderDailyDigest(data DailyDigestData) (string, error) {
	var buf bytes.Buffer
	if err := dailyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render daily digest: %w", err)
	}
	return buf.String(), nil
}

// RenderWeeklyDigest renders the weekly digest email body.
func RenderWeeklyDigest(data WeeklyDigestData) (string, error) {
	var buf bytes.Buffer
	if err := weeklyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render weekly digest: %w", err)
	}
	return buf.String(), nil
}
