package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/boopbox/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": formatUptime,
	"level": func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Boopbox</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 1.5em auto; padding: 0 1em; background: #fafafa; }
h1 { font-size: 1.5em; margin-bottom: 0.2em; }
h2 { font-size: 1.1em; margin: 1.2em 0 0.3em; }
table { border-collapse: collapse; width: 100%; }
td, th { text-align: left; padding: 3px 8px; border-bottom: 1px solid #e4e4e4; }
th { width: 45%; font-weight: normal; color: #555; }
.high { color: green; font-weight: bold; }
.low { color: #888; }
.pending { color: orange; }
.up { color: green; }
.down { color: red; }
</style>
</head>
<body>
<h1>Boopbox</h1>

<h2>Analog</h2>
<table>
{{range $i, $v := .Samples}}<tr><th>Channel {{$i}}</th><td>{{$v}}</td></tr>
{{else}}<tr><th>Samples</th><td class="pending">not yet sampled</td></tr>
{{end}}</table>

<h2>Button Board</h2>
<table>
{{range $i, $l := .Digital}}<tr><th>Line {{$i}}</th><td class="{{if $l}}high{{else}}low{{end}}">{{level $l}}</td></tr>
{{end}}</table>

{{with .LastMessage}}<h2>Last Message</h2>
<table>
<tr><th>{{.Source}}</th><td>{{.Text}}</td></tr>
</table>
{{end}}
<h2>Counters</h2>
<table>
{{range .Counters}}<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
{{if .MQTTConnected}}<tr><th>MQTT</th><td class="up">connected</td></tr>
{{else}}<tr><th>MQTT</th><td class="down">disconnected</td></tr>
{{end}}
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}none{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} {{.Network.SSID}}{{end}})</td></tr>
<tr><th>Address</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
<tr><th>Board</th><td>{{.Config.Board}}</td></tr>
<tr><th>Up</th><td>{{uptime .Uptime}} since {{.StartTime.UTC.Format "2006-01-02 15:04:05"}} UTC</td></tr>
<tr><th>Sample period</th><td>{{.Config.SampleMs}}ms</td></tr>
<tr><th>Frame period</th><td>{{.Config.AnimationMs}}ms</td></tr>
<tr><th>Motor hold</th><td>{{.Config.HoldMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{with .Config.HeartbeatMs}}{{.}}ms{{else}}off{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">index.json</a></p>
</body>
</html>
`

// formatUptime renders d as its two most significant units, e.g. "3d 4h".
func formatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	units := []struct {
		n      int64
		suffix string
	}{
		{secs / 86400, "d"},
		{secs / 3600 % 24, "h"},
		{secs / 60 % 60, "m"},
		{secs % 60, "s"},
	}
	for i, u := range units {
		if u.n == 0 && i < len(units)-1 {
			continue
		}
		out := fmt.Sprintf("%d%s", u.n, u.suffix)
		if i+1 < len(units) {
			out += fmt.Sprintf(" %d%s", units[i+1].n, units[i+1].suffix)
		}
		return out
	}
	return "0s"
}

type counterRow struct {
	Name  string
	Value uint64
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := struct {
		status.Snapshot
		Counters []counterRow
	}{Snapshot: snap}
	for _, c := range status.Counters() {
		data.Counters = append(data.Counters, counterRow{Name: c.String(), Value: snap.Counts.Get(c)})
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
