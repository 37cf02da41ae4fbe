// Command sandbar-msg sends control commands to a running sandbar over its
// control socket.
//
//	sandbar-msg all status "hello"
//	echo "selected toggle-visibility" | sandbar-msg
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/b/sandbar/pkg/ipc"
	"github.com/b/sandbar/pkg/paths"
)

var (
	socketPath = flag.String("socket", "", "control socket `path` (default: per display in $XDG_RUNTIME_DIR)")
	ping       = flag.Bool("ping", false, "only check that sandbar is listening")
	timeout    = flag.Duration("timeout", ipc.DefaultTimeout, "give up after `duration`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: sandbar-msg [OPTIONS] [OUTPUT COMMAND [ARG]]")
		fmt.Fprintln(os.Stderr, "Without a command, lines are read from stdin.")
		flag.PrintDefaults()
	}
	flag.Parse()

	path := *socketPath
	if path == "" {
		path = paths.SocketPath()
	}

	if *ping {
		if err := ipc.Ping(path, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "sandbar-msg: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var lines []string
	if flag.NArg() > 0 {
		lines = []string{strings.Join(flag.Args(), " ")}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 4096), 1<<20)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "sandbar-msg: read stdin: %v\n", err)
			os.Exit(1)
		}
	}
	if len(lines) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := ipc.Send(path, lines, *timeout+time.Duration(len(lines))*time.Millisecond); err != nil {
		fmt.Fprintf(os.Stderr, "sandbar-msg: %v\n", err)
		os.Exit(1)
	}
}
