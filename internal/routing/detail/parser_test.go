package detail

import "testing"

const sampleDetail = `   route to: 10.9.9.9
destination: 10.9.9.0
       mask: 255.255.255.0
    gateway: 192.168.32.1
  interface: en0
      flags: <UP,GATEWAY,DONE,STATIC,BLACKHOLE>
 recvpipe  sendpipe  ssthresh  rtt,msec    rttvar  hopcount      mtu     expire
       0         0         0        12         4         2      1500       600
`

func TestParse_SampleDetail(t *testing.T) {
	d, err := Parse(sampleDetail)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if d.Gateway != "192.168.32.1" {
		t.Errorf("gateway = %q, want 192.168.32.1", d.Gateway)
	}
	if d.Interface != "en0" {
		t.Errorf("interface = %q, want en0", d.Interface)
	}
	if d.Flags != "SB" {
		t.Errorf("flags = %q, want SB", d.Flags)
	}
	if !d.HasMetrics {
		t.Fatal("metrics table not located")
	}
	if d.Metrics.RTT != "12" {
		t.Errorf("rtt = %q, want 12", d.Metrics.RTT)
	}
	if d.Metrics.RTTVar != "4" {
		t.Errorf("rttvar = %q, want 4", d.Metrics.RTTVar)
	}
	if d.Metrics.HopCount != "2" {
		t.Errorf("hopcount = %q, want 2", d.Metrics.HopCount)
	}
	if d.Metrics.MTU != "1500" {
		t.Errorf("mtu = %q, want 1500", d.Metrics.MTU)
	}
	if d.Metrics.RecvPipe != "0" || d.Metrics.SendPipe != "0" || d.Metrics.SSThresh != "0" {
		t.Errorf("pipe/ssthresh = %q/%q/%q, want 0/0/0",
			d.Metrics.RecvPipe, d.Metrics.SendPipe, d.Metrics.SSThresh)
	}
	if d.Expire != "600" {
		t.Errorf("expire = %q, want 600", d.Expire)
	}
}

func TestParse_SystemFlagsIgnored(t *testing.T) {
	output := `    gateway: 192.168.1.1
      flags: <UP,GATEWAY,HOST,DONE,WASCLONED,IFSCOPE,LLINFO>
`
	d, err := Parse(output)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.Flags != "L" {
		t.Errorf("flags = %q, want L", d.Flags)
	}
}

func TestParse_MissingMetricsHeader(t *testing.T) {
	output := `    gateway: 192.168.1.1
  interface: en0
      flags: <UP,GATEWAY,DONE,STATIC>
 recvpipe  sendpipe  ssthresh
       0         0         0
`
	d, err := Parse(output)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// A partial header must not trigger positional extraction
	if d.HasMetrics {
		t.Error("incomplete header treated as metrics table")
	}
	if d.Metrics.RecvPipe != "" {
		t.Errorf("recvpipe = %q, want empty", d.Metrics.RecvPipe)
	}
}

func TestParse_ReorderedHeader(t *testing.T) {
	output := `    gateway: 10.0.0.1
      flags: <UP,GATEWAY,DONE,REJECT>
 mtu  expire  recvpipe  sendpipe  ssthresh  rtt,msec  rttvar  hopcount
 9000     0       100       200       300        10       2        5
`
	d, err := Parse(output)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !d.HasMetrics {
		t.Fatal("metrics table not located")
	}
	if d.Metrics.MTU != "9000" {
		t.Errorf("mtu = %q, want 9000 (positional against reordered header)", d.Metrics.MTU)
	}
	if d.Metrics.RecvPipe != "100" {
		t.Errorf("recvpipe = %q, want 100", d.Metrics.RecvPipe)
	}
	if d.Flags != "R" {
		t.Errorf("flags = %q, want R", d.Flags)
	}
}

func TestParse_NoUsableContent(t *testing.T) {
	if _, err := Parse("route: bad address\n"); err == nil {
		t.Error("expected an error for output with no detail lines")
	}
}
