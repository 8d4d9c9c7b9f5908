package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/routepilot/routepilot/internal/config"
	"github.com/routepilot/routepilot/internal/logger"
	"github.com/routepilot/routepilot/internal/routing"
	"github.com/routepilot/routepilot/internal/routing/command"
	"github.com/routepilot/routepilot/internal/routing/types"
)

var (
	version = "1.0.0"

	stateFile   string
	silentMode  bool
	verboseMode bool

	gatewayFlag   string
	ifaceFlag     string
	typeFlag      string
	staticFlag    bool
	rejectFlag    bool
	blackholeFlag bool
	llinfoFlag    bool

	mtuFlag      string
	hopcountFlag string
	rttFlag      string
	rttvarFlag   string
	sendpipeFlag string
	recvpipeFlag string
	ssthreshFlag string

	filterFlag string
	dryRunFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routepilot",
		Short: "Friendly route table manager",
		Long:  `Inspect and mutate the system routing table without memorizing route(8) shorthand rules.`,
		Run:   listRoutes,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List routes, including hidden drop routes",
		Long:  `List the current routing table merged with known reject/blackhole routes that netstat omits.`,
		Run:   listRoutes,
	}
	listCmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "Only show routes overlapping this network")

	getCmd := &cobra.Command{
		Use:   "get <destination>",
		Short: "Show route details for one destination",
		Long:  `Query and decode the detailed routing information for a single destination.`,
		Args:  cobra.ExactArgs(1),
		Run:   getRoute,
	}

	addCmd := newMutationCommand("add", "Add a route", types.CommandAdd)
	deleteCmd := newMutationCommand("delete", "Delete a route", types.CommandDelete)
	changeCmd := newMutationCommand("change", "Change an existing route", types.CommandChange)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run:   showVersion,
	}

	rootCmd.PersistentFlags().StringVar(&stateFile, "state", "", "Phantom route state file path")
	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Silent mode (no log output)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Verbose mode (debug level logging)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(changeCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newMutationCommand(verb, short string, kind types.CommandKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb + " <destination>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			applyRoute(kind, args[0])
		},
	}

	cmd.Flags().StringVarP(&gatewayFlag, "gateway", "g", "", "Gateway: IP address, interface name, MAC address or *")
	cmd.Flags().StringVarP(&ifaceFlag, "iface", "i", "", "Scope the route to this interface")
	cmd.Flags().StringVarP(&typeFlag, "type", "t", "auto", "Destination interpretation: auto, net or host")
	cmd.Flags().BoolVar(&staticFlag, "static", false, "Mark the route static")
	cmd.Flags().BoolVar(&rejectFlag, "reject", false, "Reject matching packets (emits unreachable)")
	cmd.Flags().BoolVar(&blackholeFlag, "blackhole", false, "Silently drop matching packets")
	cmd.Flags().BoolVar(&llinfoFlag, "llinfo", false, "Mark the route as carrying link-layer info")
	cmd.Flags().StringVar(&mtuFlag, "mtu", "", "Path MTU (68-65535)")
	cmd.Flags().StringVar(&hopcountFlag, "hopcount", "", "Hop count (0-255)")
	cmd.Flags().StringVar(&rttFlag, "rtt", "", "Round-trip time in ms (0-65535)")
	cmd.Flags().StringVar(&rttvarFlag, "rttvar", "", "RTT variance (0-65535)")
	cmd.Flags().StringVar(&sendpipeFlag, "sendpipe", "", "Send window (0-65535)")
	cmd.Flags().StringVar(&recvpipeFlag, "recvpipe", "", "Receive window (0-65535)")
	cmd.Flags().StringVar(&ssthreshFlag, "ssthresh", "", "Slow-start threshold (0-65535)")
	cmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Print the command instead of running it")

	return cmd
}

func newManager() *routing.Manager {
	cfg := config.NewConfig()
	if stateFile != "" {
		cfg.StateFile = stateFile
	}
	if verboseMode {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg.LogLevel)
	if silentMode {
		log = logger.Discard()
	}

	return routing.NewManager(cfg, nil, nil, nil, nil, log)
}

func listRoutes(_ *cobra.Command, _ []string) {
	m := newManager()

	routes, err := m.Refresh()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read routing table: %v\n", err)
		os.Exit(1)
	}

	if filterFlag != "" {
		routes = m.Find(routes, filterFlag)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DESTINATION\tGATEWAY\tFLAGS\tNETIF\tEXPIRE\t")
	for _, route := range routes {
		note := ""
		if route.IsDropRoute() {
			note = " (hidden)"
		} else if !route.IsEditable() {
			note = " (kernel)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\t\n",
			route.Destination, route.Gateway, route.Flags,
			route.Interface, route.Expire, note)
	}
	w.Flush()
}

func getRoute(_ *cobra.Command, args []string) {
	m := newManager()

	d, err := m.Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query route: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("destination: %s\n", args[0])
	fmt.Printf("gateway:     %s\n", d.Gateway)
	fmt.Printf("interface:   %s\n", d.Interface)
	fmt.Printf("flags:       %s\n", d.Flags)
	if d.HasMetrics {
		fmt.Printf("mtu:         %s\n", d.Metrics.MTU)
		fmt.Printf("hopcount:    %s\n", d.Metrics.HopCount)
		fmt.Printf("rtt:         %s\n", d.Metrics.RTT)
		fmt.Printf("rttvar:      %s\n", d.Metrics.RTTVar)
		fmt.Printf("sendpipe:    %s\n", d.Metrics.SendPipe)
		fmt.Printf("recvpipe:    %s\n", d.Metrics.RecvPipe)
		fmt.Printf("ssthresh:    %s\n", d.Metrics.SSThresh)
		fmt.Printf("expire:      %s\n", d.Expire)
	}
}

func applyRoute(kind types.CommandKind, destination string) {
	route := &types.Route{
		Destination: destination,
		Gateway:     gatewayFlag,
		Interface:   ifaceFlag,
		TypeHint:    types.ParseRouteType(typeFlag),
		Flags:       behaviorFlags(),
		Metrics: types.Metrics{
			MTU:      mtuFlag,
			HopCount: hopcountFlag,
			RTT:      rttFlag,
			RTTVar:   rttvarFlag,
			SendPipe: sendpipeFlag,
			RecvPipe: recvpipeFlag,
			SSThresh: ssthreshFlag,
		},
	}

	m := newManager()

	if dryRunFlag {
		if err := command.Validate(route, kind); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(joinArgs(command.Build(kind, route, route.Metrics)))
		return
	}

	if kind == types.CommandAdd {
		if current, err := m.Refresh(); err == nil {
			for _, conflict := range m.Conflicts(current, route) {
				fmt.Fprintf(os.Stderr, "Warning: overlaps existing route %s via %s\n",
					conflict.Destination, conflict.Gateway)
			}
		}
	}

	if err := m.Apply(kind, route); err != nil {
		if roe, ok := err.(*types.RouteOperationError); ok && roe.IsUserFacing() {
			fmt.Fprintf(os.Stderr, "%s: %v\n", roe.ErrorType, roe.Cause)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to %s route: %v\n", kind.Verb(), err)
		}
		os.Exit(1)
	}

	fmt.Printf("Route %s completed: %s\n", kind.Verb(), destination)
}

func behaviorFlags() string {
	flags := ""
	if staticFlag {
		flags += string(rune(types.FlagStatic))
	}
	if rejectFlag {
		flags += string(rune(types.FlagReject))
	}
	if blackholeFlag {
		flags += string(rune(types.FlagBlackhole))
	}
	if llinfoFlag {
		flags += string(rune(types.FlagLinkInfo))
	}
	return flags
}

func joinArgs(args []string) string {
	out := "route"
	for _, arg := range args {
		out += " " + arg
	}
	return out
}

func showVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("routepilot v%s\n", version)
	fmt.Printf("Runtime: %s\n", runtime.Version())
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
