// Package traffic starts network load on a testbed.
//
// Each generator logs in to the testbed hosts with ssh and starts a
// server/client pair (or a single copy for [SCP]). Constructors only build
// the command lines; a [Runner] starts them and returns a [StopFunc]:
//
//	tb := traffic.TestbedFromEnv(os.Getenv)
//	g, err := traffic.UDP(tb, traffic.Options{Node: traffic.NodeB}, 10_000_000, traffic.ECT1)
//	stop, err := (&traffic.Runner{Starter: traffic.ExecStarter{}}).Run(ctx, g)
//	defer stop()
//
// With Runner.DryRun set the quoted commands are logged and nothing runs.
package traffic
