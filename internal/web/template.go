package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/tally-tracker/internal/journal"
	"github.com/sweeney/tally-tracker/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"deficit": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Tally Tracker</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.behind { color: red; font-weight: bold; }
.ontrack { color: green; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Tally Tracker</h1>

<h2>Counters</h2>
<table>
<tr><th>Tally A</th><td>{{.Face.TallyA}} / goal {{.Face.GoalA}}</td></tr>
<tr><th>Deficit A</th><td class="{{if gt .DeficitA 0.0}}behind{{else}}ontrack{{end}}">{{deficit .DeficitA}}</td></tr>
<tr><th>Tally B</th><td>{{.Face.TallyB}} / goal {{.Face.GoalB}}</td></tr>
<tr><th>Deficit B</th><td class="{{if gt .DeficitB 0.0}}behind{{else}}ontrack{{end}}">{{deficit .DeficitB}}</td></tr>
<tr><th>Mode</th><td>{{.Face.Mode}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} — {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>A increment</th><td>{{.Counts.IncA}}</td></tr>
<tr><th>A reset</th><td>{{.Counts.ResetA}}</td></tr>
<tr><th>B increment</th><td>{{.Counts.IncB}}</td></tr>
<tr><th>B reset</th><td>{{.Counts.ResetB}}</td></tr>
<tr><th>Goal A set</th><td>{{.Counts.GoalA}}</td></tr>
<tr><th>Goal B set</th><td>{{.Counts.GoalB}}</td></tr>
</table>

{{if .History}}
<h2>Recent Events</h2>
<table>
<tr><th>Time</th><td>Event</td></tr>
{{range .History}}<tr><th>{{.Timestamp.UTC.Format "2006-01-02 15:04:05"}}</th><td>{{.Type}} (A {{.TallyA}}/{{.GoalA}}, B {{.TallyB}}/{{.GoalB}})</td></tr>
{{end}}</table>
{{end}}

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
<tr><th>Backup file</th><td>{{.Config.BackupPath}}</td></tr>
<tr><th>Journal</th><td>{{.Config.JournalPath}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, history []journal.Entry) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime  time.Duration
		History []journal.Entry
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		History:  history,
	}
	indexTmpl.Execute(w, data)
}
