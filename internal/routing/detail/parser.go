// Package detail parses the free-form per-destination output of
// route -n get: the flags/gateway/interface lines plus the one metrics table.
package detail

import (
	"fmt"
	"strings"

	"github.com/routepilot/routepilot/internal/routing/types"
)

// Detail is the parsed result of one per-destination query
type Detail struct {
	Gateway    string
	Interface  string
	Flags      string // translated behavior flag letters
	Metrics    types.Metrics
	Expire     string
	HasMetrics bool // whether the metrics table was located
}

// systemFlags translates the kernel flag names that users control to the
// single-letter vocabulary. Every other name (UP, GATEWAY, DONE, CLONING,
// ...) is system-managed and ignored.
var systemFlags = map[string]byte{
	"STATIC":    types.FlagStatic,
	"REJECT":    types.FlagReject,
	"BLACKHOLE": types.FlagBlackhole,
	"LLINFO":    types.FlagLinkInfo,
}

// metricColumns are the column names the metrics table header must all
// contain, in any order, before positional extraction is attempted
var metricColumns = []string{
	"recvpipe", "sendpipe", "ssthresh", "rtt,msec",
	"rttvar", "hopcount", "mtu", "expire",
}

// Parse reads the detail-query output. The metrics table is optional; its
// absence is reported through HasMetrics rather than guessed around.
func Parse(output string) (*Detail, error) {
	d := &Detail{}
	lines := strings.Split(output, "\n")
	found := false

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(line, "gateway:"):
			d.Gateway = fieldAfterColon(line)
			found = true
		case strings.HasPrefix(line, "interface:"):
			d.Interface = fieldAfterColon(line)
			found = true
		case strings.HasPrefix(line, "flags:"):
			d.Flags = translateFlags(fieldAfterColon(line))
			found = true
		case isMetricsHeader(line):
			if row, ok := nextNonBlank(lines, i+1); ok {
				d.readMetricsRow(strings.Fields(line), strings.Fields(row))
				d.HasMetrics = true
				found = true
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("no route detail found in output")
	}
	return d, nil
}

// translateFlags turns "<UP,GATEWAY,DONE,STATIC>" into behavior letters
func translateFlags(list string) string {
	list = strings.Trim(list, "<>")
	var flags []byte
	for _, name := range strings.Split(list, ",") {
		if letter, ok := systemFlags[strings.TrimSpace(name)]; ok {
			flags = append(flags, letter)
		}
	}
	return string(flags)
}

// isMetricsHeader requires every expected column name to be present before
// the following row is trusted positionally
func isMetricsHeader(line string) bool {
	for _, col := range metricColumns {
		if !strings.Contains(line, col) {
			return false
		}
	}
	return true
}

func (d *Detail) readMetricsRow(header, row []string) {
	for i, col := range header {
		if i >= len(row) {
			return
		}
		switch col {
		case "recvpipe":
			d.Metrics.RecvPipe = row[i]
		case "sendpipe":
			d.Metrics.SendPipe = row[i]
		case "ssthresh":
			d.Metrics.SSThresh = row[i]
		case "rtt,msec":
			d.Metrics.RTT = row[i]
		case "rttvar":
			d.Metrics.RTTVar = row[i]
		case "hopcount":
			d.Metrics.HopCount = row[i]
		case "mtu":
			d.Metrics.MTU = row[i]
		case "expire":
			d.Expire = row[i]
		}
	}
}

func nextNonBlank(lines []string, from int) (string, bool) {
	for i := from; i < len(lines); i++ {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, true
		}
	}
	return "", false
}

func fieldAfterColon(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
