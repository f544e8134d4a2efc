package notify

import (
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/laguna/integration/internal/domain/integration"
)

// kv is a rendered key/value row in an email detail table
type kv struct {
	Key   string
	Value string
}

func sortedRows(m map[string]string) []kv {
	rows := make([]kv, 0, len(m))
	for k, v := range m {
		rows = append(rows, kv{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// statusClass maps a human status to the CSS class used in order emails
func statusClass(status string) string {
	switch strings.ToLower(status) {
	case "success", "completed", "processed", "synced":
		return "success"
	case "error", "failed", "rejected":
		return "error"
	default:
		return "warning"
	}
}

const baseStyle = `
body { font-family: Arial, sans-serif; margin: 20px; }
.header { background-color: #f8f9fa; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
.content { margin-bottom: 20px; }
.details { background-color: #f8f9fa; padding: 15px; border-radius: 5px; }
.status-success { color: #28a745; font-weight: bold; }
.status-error { color: #dc3545; font-weight: bold; }
.status-warning { color: #ffc107; font-weight: bold; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
`

var orderTemplate = template.Must(template.New("order").Parse(`<html>
<head><style>` + baseStyle + `</style></head>
<body>
<div class="header">
  <h2>3DCart to NetSuite Integration - Order Update</h2>
  <p><strong>Timestamp:</strong> {{.Timestamp}}</p>
</div>
<div class="content">
  <h3>Order Information</h3>
  <p><strong>Order ID:</strong> {{.OrderID}}</p>
  <p><strong>Status:</strong> <span class="status-{{.StatusClass}}">{{.Status}}</span></p>
</div>
{{if .Details}}<div class="details">
  <h3>Details</h3>
  <table>
  {{range .Details}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
  {{end}}</table>
</div>{{end}}
<div class="content">
  <p><em>This is an automated notification from the 3DCart to NetSuite integration system.</em></p>
</div>
</body>
</html>`))

var errorTemplate = template.Must(template.New("error").Parse(`<html>
<head><style>` + baseStyle + `
.error-box { color: #721c24; background-color: #f8d7da; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
</style></head>
<body>
<div class="header" style="background-color: #f8d7da;">
  <h2>Integration Error Alert</h2>
  <p><strong>Timestamp:</strong> {{.Timestamp}}</p>
</div>
<div class="error-box">
  <h3>Error Details</h3>
  <p><strong>Error:</strong> {{.Message}}</p>
</div>
{{if .Context}}<div class="details">
  <h3>Context Information</h3>
  <table>
  {{range .Context}}<tr><th>{{.Key}}</th><td><pre>{{.Value}}</pre></td></tr>
  {{end}}</table>
</div>{{end}}
<div style="margin-top: 20px; padding: 15px; background-color: #fff3cd; border-radius: 5px;">
  <p><strong>Action Required:</strong> Please review the error and take appropriate action to resolve the issue.</p>
</div>
</body>
</html>`))

var summaryTemplate = template.Must(template.New("summary").Parse(`<html>
<head><style>` + baseStyle + `
.summary-box { background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 15px; }
.metric { display: inline-block; margin: 10px 20px 10px 0; }
.metric-value { font-size: 24px; font-weight: bold; color: #007bff; }
.metric-label { font-size: 14px; color: #6c757d; }
</style></head>
<body>
<div class="header" style="background-color: #d4edda;">
  <h2>Daily Integration Summary - {{.Date}}</h2>
</div>
<div class="summary-box">
  <h3>Order Processing Statistics</h3>
  <div class="metric"><div class="metric-value">{{.Total}}</div><div class="metric-label">Orders Processed</div></div>
  <div class="metric"><div class="metric-value">{{.Succeeded}}</div><div class="metric-label">Successful</div></div>
  <div class="metric"><div class="metric-value">{{.Failed}}</div><div class="metric-label">Failed</div></div>
</div>
{{if .Errors}}<div class="summary-box" style="background-color: #f8d7da;">
  <h3>Errors Encountered</h3>
  <ul>
  {{range .Errors}}<li>{{.}}</li>
  {{end}}</ul>
</div>{{end}}
<div style="margin-top: 20px; font-size: 12px; color: #6c757d;">
  <p>This summary covers the period from 00:00 to 23:59 on {{.Date}}.</p>
  <p>Generated automatically by the 3DCart to NetSuite integration system.</p>
</div>
</body>
</html>`))

var connectionTemplate = template.Must(template.New("connection").Parse(`<html>
<head><style>` + baseStyle + `
.status-line { font-weight: bold; font-size: 18px; }
</style></head>
<body>
<div class="header" style="background-color: {{.HeaderColor}};">
  <h2>Connection Status Alert</h2>
  <p><strong>Service:</strong> {{.Service}}</p>
  <p><strong>Status:</strong> <span class="status-line" style="color: {{.StatusColor}};">{{.StatusText}}</span></p>
  <p><strong>Timestamp:</strong> {{.Timestamp}}</p>
</div>
{{if .Details}}<div class="details">
  <h3>Connection Details</h3>
  <table>
  {{range .Details}}<tr><th>{{.Key}}</th><td>{{.Value}}</td></tr>
  {{end}}</table>
</div>{{end}}
{{if not .Healthy}}<div style="margin-top: 20px; padding: 15px; background-color: #fff3cd; border-radius: 5px;">
  <p><strong>Action Required:</strong> The {{.Service}} connection has failed. Please check your credentials and network connectivity.</p>
</div>{{end}}
</body>
</html>`))

func renderOrderNotification(orderID, status string, details []integration.Detail, now time.Time) (string, error) {
	var b strings.Builder
	err := orderTemplate.Execute(&b, struct {
		Timestamp   string
		OrderID     string
		Status      string
		StatusClass string
		Details     []integration.Detail
	}{
		Timestamp:   now.Format("2006-01-02 15:04:05"),
		OrderID:     orderID,
		Status:      status,
		StatusClass: statusClass(status),
		Details:     details,
	})
	return b.String(), err
}

func renderErrorNotification(message string, errCtx map[string]string, now time.Time) (string, error) {
	var b strings.Builder
	err := errorTemplate.Execute(&b, struct {
		Timestamp string
		Message   string
		Context   []kv
	}{
		Timestamp: now.Format("2006-01-02 15:04:05"),
		Message:   message,
		Context:   sortedRows(errCtx),
	})
	return b.String(), err
}

func renderDailySummary(summary integration.DailySummary) (string, error) {
	var b strings.Builder
	err := summaryTemplate.Execute(&b, struct {
		Date      string
		Total     int
		Succeeded int
		Failed    int
		Errors    []string
	}{
		Date:      summary.Date.Format("2006-01-02"),
		Total:     summary.Total,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Errors:    summary.Errors,
	})
	return b.String(), err
}

func renderConnectionAlert(service string, healthy bool, details map[string]string, now time.Time) (string, error) {
	statusText := "Connection Failed"
	statusColor := "#dc3545"
	headerColor := "#f8d7da"
	if healthy {
		statusText = "Connected"
		statusColor = "#28a745"
		headerColor = "#d4edda"
	}

	var b strings.Builder
	err := connectionTemplate.Execute(&b, struct {
		Service     string
		Healthy     bool
		StatusText  string
		StatusColor string
		HeaderColor string
		Timestamp   string
		Details     []kv
	}{
		Service:     service,
		Healthy:     healthy,
		StatusText:  statusText,
		StatusColor: statusColor,
		HeaderColor: headerColor,
		Timestamp:   now.Format("2006-01-02 15:04:05"),
		Details:     sortedRows(details),
	})
	return b.String(), err
}
