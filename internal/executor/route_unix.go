package executor

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

const routeTool = "/sbin/route"

// RouteCommand runs route(8) directly when already root, otherwise through
// an osascript administrator prompt, the way a desktop tool elevates.
type RouteCommand struct {
	tool string
}

// NewRouteCommand creates the default route(8) runner
func NewRouteCommand() *RouteCommand {
	return &RouteCommand{tool: routeTool}
}

// Run executes the argument sequence and returns the combined output
func (c *RouteCommand) Run(args []string) (string, error) {
	if unix.Geteuid() == 0 {
		out, err := exec.Command(c.tool, args...).CombinedOutput()
		return string(out), err
	}

	line := c.tool + " " + strings.Join(args, " ")
	script := fmt.Sprintf("do shell script %q with administrator privileges", line)
	out, err := exec.Command("osascript", "-e", script).CombinedOutput()
	return string(out), err
}

// NetstatListing returns the current visible route table text
func NetstatListing() (string, error) {
	out, err := exec.Command("netstat", "-rn").Output()
	if err != nil {
		return "", fmt.Errorf("failed to list routes: %w", err)
	}
	return string(out), nil
}

// RouteDetail returns the detailed per-destination dump for one destination
func RouteDetail(destination string) (string, error) {
	out, err := exec.Command(routeTool, "-n", "get", destination).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", destination, err)
	}
	return string(out), nil
}
