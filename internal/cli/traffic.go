package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/traffic"
)

// Traffic generator kinds.
const (
	kindGreedy = "greedy"
	kindNetcat = "netcat"
	kindIperf  = "iperf"
	kindSCP    = "scp"
	kindUDP    = "udp"
)

var trafficKinds = []string{kindGreedy, kindNetcat, kindIperf, kindSCP, kindUDP}

// trafficOpts holds the traffic command flags.
type trafficOpts struct {
	node     string
	tag      string
	bitrate  string
	ecn      string
	duration time.Duration
	dryRun   bool
}

// trafficCommand creates the traffic command.
func (c *CLI) trafficCommand() *cobra.Command {
	opts := trafficOpts{node: string(traffic.NodeA), ecn: string(traffic.NonECT)}

	cmd := &cobra.Command{
		Use:   "traffic <greedy|netcat|iperf|scp|udp>",
		Short: "Start a load generator on the testbed",
		Long: `Start a load generator on the testbed.

Hosts are read from IP_SERVER{A,B}_MGMT, IP_CLIENT{A,B}_MGMT, IP_SERVER{A,B}
and IP_CLIENT{A,B}. The flow runs until --duration passes or the command is
interrupted, then all processes are stopped. The flow hint printed first
belongs in the test log.`,
		Example: `  testplot traffic greedy --node b --tag scalable
  testplot traffic udp --bitrate 50M --ecn ect1 --duration 60s
  testplot traffic iperf --dry-run -v`,
		ValidArgs: trafficKinds,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenerator(traffic.TestbedFromEnv(os.Getenv), args[0], opts)
			if err != nil {
				return err
			}
			runner := &traffic.Runner{
				Starter: traffic.ExecStarter{},
				Logger:  c.Logger,
				DryRun:  opts.dryRun,
				Hint:    func(h string) { printInfo("%s", h) },
			}
			return runTraffic(cmd.Context(), runner, g, opts.duration)
		},
	}

	cmd.Flags().StringVar(&opts.node, "node", opts.node, "testbed node pair: a or b")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "tag grouping similar flows across tests")
	cmd.Flags().StringVar(&opts.bitrate, "bitrate", "10M", "udp frame bitrate in bit/s, SI suffixes allowed")
	cmd.Flags().StringVar(&opts.ecn, "ecn", opts.ecn, "udp ECN codepoint: nonect, ect0, ect1")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "stop after this long (default: until interrupted)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "only log the commands")

	return cmd
}

// newGenerator prepares the generator of kind on tb.
func newGenerator(tb *traffic.Testbed, kind string, opts trafficOpts) (traffic.Generator, error) {
	node, err := traffic.ParseNode(opts.node)
	if err != nil {
		return traffic.Generator{}, err
	}
	o := traffic.Options{Node: node, Tag: opts.tag}

	switch kind {
	case kindGreedy:
		return traffic.Greedy(tb, o)
	case kindNetcat:
		return traffic.TCPNetcat(tb, o)
	case kindIperf:
		return traffic.TCPIperf(tb, o)
	case kindSCP:
		return traffic.SCP(tb, o)
	case kindUDP:
		rate, _, err := humanize.ParseSI(opts.bitrate)
		if err != nil {
			return traffic.Generator{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "bitrate %q", opts.bitrate)
		}
		ecn := traffic.ECN(opts.ecn)
		if !slices.Contains([]traffic.ECN{traffic.NonECT, traffic.ECT0, traffic.ECT1}, ecn) {
			return traffic.Generator{}, perrors.New(perrors.ErrCodeInvalidInput, "unknown ECN codepoint %q", opts.ecn)
		}
		return traffic.UDP(tb, o, int(math.Round(rate)), ecn)
	}
	return traffic.Generator{}, perrors.New(perrors.ErrCodeInvalidInput, "unknown traffic kind %q", kind)
}

// runTraffic starts g and keeps it running until d passes or ctx ends.
// A zero d waits for ctx only. Dry runs return right after logging.
func runTraffic(ctx context.Context, r *traffic.Runner, g traffic.Generator, d time.Duration) error {
	stop, err := r.Run(ctx, g)
	if err != nil {
		return err
	}
	if r.DryRun {
		return stop()
	}

	printSuccess("Started %d processes", len(g.Commands))
	wait := ctx.Done()
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-wait:
		case <-timer.C:
		}
	} else {
		<-wait
	}

	if err := stop(); err != nil {
		return fmt.Errorf("stop traffic: %w", err)
	}
	printInfo("Stopped traffic")
	return nil
}
