package traffic

import (
	"fmt"
	"strings"
	"sync"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

// DefaultBasePort is the first port handed out for traffic servers.
const DefaultBasePort = 5500

// Node names a client/server host pair. A usually carries classic traffic,
// B scalable traffic.
type Node string

// Testbed nodes.
const (
	NodeA Node = "A"
	NodeB Node = "B"
)

// ParseNode accepts "a", "b" or their upper case forms.
func ParseNode(s string) (Node, error) {
	switch strings.ToUpper(s) {
	case "A":
		return NodeA, nil
	case "B":
		return NodeB, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidInput, "unknown testbed node %q (want a or b)", s)
}

// Hosts are the addresses of one node pair. Management addresses are used
// to log in, data addresses to send traffic.
type Hosts struct {
	ServerMgmt string
	ClientMgmt string
	Server     string
	Client     string
}

// Testbed holds the host addresses of every node and allocates traffic
// ports. It is safe for concurrent use.
type Testbed struct {
	Nodes    map[Node]Hosts
	BasePort int

	mu   sync.Mutex
	next int
}

// TestbedFromEnv reads the IP_SERVER{A,B}_MGMT, IP_CLIENT{A,B}_MGMT,
// IP_SERVER{A,B} and IP_CLIENT{A,B} variables through getenv. A node is
// configured only when all four of its variables are set.
func TestbedFromEnv(getenv func(string) string) *Testbed {
	tb := &Testbed{Nodes: make(map[Node]Hosts), BasePort: DefaultBasePort}
	for _, n := range []Node{NodeA, NodeB} {
		h := Hosts{
			ServerMgmt: getenv(fmt.Sprintf("IP_SERVER%s_MGMT", n)),
			ClientMgmt: getenv(fmt.Sprintf("IP_CLIENT%s_MGMT", n)),
			Server:     getenv(fmt.Sprintf("IP_SERVER%s", n)),
			Client:     getenv(fmt.Sprintf("IP_CLIENT%s", n)),
		}
		if h.ServerMgmt != "" && h.ClientMgmt != "" && h.Server != "" && h.Client != "" {
			tb.Nodes[n] = h
		}
	}
	return tb
}

// Hosts returns the addresses of node n.
func (t *Testbed) Hosts(n Node) (Hosts, error) {
	h, ok := t.Nodes[n]
	if !ok {
		return Hosts{}, perrors.New(perrors.ErrCodeInvalidInput, "testbed node %s is not configured", n)
	}
	return h, nil
}

// NextPort returns a port not handed out before by this testbed.
func (t *Testbed) NextPort() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	base := t.BasePort
	if base <= 0 {
		base = DefaultBasePort
	}
	p := base + t.next
	t.next++
	return p
}
