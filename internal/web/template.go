package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/gps-logger/internal/status"
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
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"rfc3339": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>GPS Logger</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.good { color: green; font-weight: bold; }
.bad { color: red; }
.warn { color: orange; }
.idle { color: #888; }
</style>
</head>
<body>
<h1>GPS Logger</h1>

<h2>Link</h2>
<table>
<tr><th>State</th><td class="{{if eq (stateOrUnknown .LinkState) "CONNECTED"}}good{{else if eq (stateOrUnknown .LinkState) "CONNECTING"}}warn{{else}}bad{{end}}">{{stateOrUnknown .LinkState}}</td></tr>
<tr><th>SSID</th><td>{{.Config.SSID}}</td></tr>
{{if .LinkAddr}}<tr><th>Address</th><td>{{.LinkAddr}}</td></tr>{{end}}
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}good{{else}}bad{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
{{if .Backlog}}<tr><th>Telemetry backlog</th><td class="warn">{{.Backlog}} events</td></tr>{{end}}
</table>

<h2>Clock</h2>
<table>
<tr><th>Time sync</th><td class="{{if eq (stateOrUnknown .SyncState) "COMPLETE"}}good{{else if eq (stateOrUnknown .SyncState) "TIMED_OUT"}}bad{{else}}idle{{end}}">{{stateOrUnknown .SyncState}}</td></tr>
<tr><th>Clock synced</th><td>{{if .ClockSynced}}yes{{else}}no{{end}}</td></tr>
<tr><th>Corrections</th><td>{{.Counts.Corrections}}</td></tr>
</table>

<h2>Position</h2>
<table>
<tr><th>Last fix</th><td>{{if .LastFix}}{{.LastFix}}{{else}}none{{end}}</td></tr>
<tr><th>Received</th><td>{{rfc3339 .LastFixAt}}</td></tr>
</table>

<h2>Track Log</h2>
<table>
<tr><th>Buffer</th><td>{{.BufferUsed}} / {{.BufferCap}} bytes</td></tr>
<tr><th>Records</th><td>{{.Counts.Records}}</td></tr>
<tr><th>Flushes</th><td>{{.Counts.Flushes}}</td></tr>
<tr><th>Discarded batches</th><td class="{{if .Counts.Discards}}bad{{else}}idle{{end}}">{{.Counts.Discards}}</td></tr>
<tr><th>File</th><td>{{.Config.LogPath}}</td></tr>
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Serial</th><td>{{.Config.SerialDevice}} @ {{.Config.SerialBaud}}</td></tr>
<tr><th>NTP server</th><td>{{.Config.NTPServer}}</td></tr>
</table>

<p><a href="/status.json">status.json</a></p>
</body>
</html>
`

// renderHTML writes the status page. Template errors are logged, not
// surfaced — the page is a convenience, never worth failing a request loop
// over.
func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Error().Err(err).Msg("web: render template")
	}
}
