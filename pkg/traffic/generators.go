package traffic

import (
	"fmt"
	"strings"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

// Remote paths on the testbed hosts.
const (
	GreedyBinary = "/opt/testbed/greedy_generator/greedy"
	BigFile      = "/opt/testbed/bigfile"
)

// UDP frame geometry. Rates are given for whole ethernet frames while
// iperf takes the payload rate.
const (
	FrameSize   = 1514
	FrameHeader = 42
	UDPPayload  = FrameSize - FrameHeader
)

// ECN marking of UDP traffic.
type ECN string

// ECN codepoints.
const (
	NonECT ECN = "nonect"
	ECT0   ECN = "ect0"
	ECT1   ECN = "ect1"
)

// tos returns the iperf type-of-service flag for e.
func (e ECN) tos() string {
	switch e {
	case ECT0:
		return "--tos 0x02"
	case ECT1:
		return "--tos 0x01"
	}
	return ""
}

// Command is the argv of one process started on the control host.
type Command []string

// Generator is a prepared traffic flow: the processes to start, in order,
// and a hint describing the flow for the test log.
type Generator struct {
	Hint     string
	Commands []Command
}

// Options are shared by all generators.
type Options struct {
	Node Node
	Tag  string // groups similar flows across tests
}

func (o Options) node() Node {
	if o.Node == "" {
		return NodeA
	}
	return o.Node
}

func (o Options) tag() string {
	if o.Tag == "" {
		return "No-tag"
	}
	return o.Tag
}

func ssh(host, remote string) Command {
	return Command{"ssh", "-tt", host, remote}
}

// Greedy runs the greedy generator: always data to send, full frames.
func Greedy(tb *Testbed, o Options) (Generator, error) {
	h, err := tb.Hosts(o.node())
	if err != nil {
		return Generator{}, err
	}
	port := tb.NextPort()
	n := o.node()
	return Generator{
		Hint: fmt.Sprintf("traffic=tcp type=greedy node=%s%s server=%d tag=%s", n, n, port, o.tag()),
		Commands: []Command{
			ssh(h.ServerMgmt, fmt.Sprintf("%s -vv -s %d", GreedyBinary, port)),
			ssh(h.ClientMgmt, fmt.Sprintf("sleep 0.2; %s -vv %s %d", GreedyBinary, h.Server, port)),
		},
	}, nil
}

// TCPNetcat streams /dev/zero through netcat.
func TCPNetcat(tb *Testbed, o Options) (Generator, error) {
	h, err := tb.Hosts(o.node())
	if err != nil {
		return Generator{}, err
	}
	port := tb.NextPort()
	n := o.node()
	return Generator{
		Hint: fmt.Sprintf("traffic=tcp type=netcat node=%s%s server=%d tag=%s", n, n, port, o.tag()),
		Commands: []Command{
			ssh(h.ServerMgmt, fmt.Sprintf("cat /dev/zero | nc -l %d >/dev/null", port)),
			ssh(h.ClientMgmt, fmt.Sprintf("sleep 0.2; nc -d %s %d >/dev/null", h.Server, port)),
		},
	}, nil
}

// TCPIperf runs an iperf2 TCP flow from server to client.
func TCPIperf(tb *Testbed, o Options) (Generator, error) {
	h, err := tb.Hosts(o.node())
	if err != nil {
		return Generator{}, err
	}
	port := tb.NextPort()
	n := o.node()
	return Generator{
		Hint: fmt.Sprintf("traffic=tcp type=iperf2 node=%s%s client=%d tag=%s", n, n, port, o.tag()),
		Commands: []Command{
			ssh(h.ClientMgmt, fmt.Sprintf("iperf -s -p %d", port)),
			ssh(h.ServerMgmt, fmt.Sprintf("sleep 0.2; iperf -c %s -p %d -t 86400", h.Client, port)),
		},
	}, nil
}

// SCP copies a large file over ssh. All scp traffic uses port 22, so the
// hint reports server=-1 and no port is allocated.
func SCP(tb *Testbed, o Options) (Generator, error) {
	h, err := tb.Hosts(o.node())
	if err != nil {
		return Generator{}, err
	}
	n := o.node()
	return Generator{
		Hint: fmt.Sprintf("traffic=tcp type=scp node=%s%s server=-1 tag=%s", n, n, o.tag()),
		Commands: []Command{
			ssh(h.ServerMgmt, fmt.Sprintf("scp %s %s:/tmp/", BigFile, h.Client)),
		},
	}, nil
}

// UDP sends constant bitrate UDP traffic. bitrate is in bits per second of
// ethernet frames.
func UDP(tb *Testbed, o Options, bitrate int, ecn ECN) (Generator, error) {
	if bitrate <= 0 {
		return Generator{}, perrors.New(perrors.ErrCodeInvalidInput, "udp bitrate must be positive, got %d", bitrate)
	}
	h, err := tb.Hosts(o.node())
	if err != nil {
		return Generator{}, err
	}
	if ecn != ECT0 && ecn != ECT1 {
		ecn = NonECT
	}
	port := tb.NextPort()
	n := o.node()

	client := []string{"sleep 0.5; iperf -c", h.Client, "-p", fmt.Sprint(port)}
	if tos := ecn.tos(); tos != "" {
		client = append(client, tos)
	}
	client = append(client, "-u -l", fmt.Sprint(UDPPayload), "-R -b", fmt.Sprint(PayloadRate(bitrate)), "-i 1 -t 99999")

	return Generator{
		Hint: fmt.Sprintf("traffic=udp node=%s%s client=%d rate=%d ect=%s tag=%s", n, n, port, bitrate, ecn, o.tag()),
		Commands: []Command{
			ssh(h.ClientMgmt, fmt.Sprintf("iperf -s -p %d", port)),
			ssh(h.ServerMgmt, strings.Join(client, " ")),
		},
	}, nil
}

// PayloadRate converts a frame bitrate to the UDP payload bitrate.
func PayloadRate(bitrate int) int {
	return bitrate * UDPPayload / FrameSize
}
