// command maxioctl is a small command-line tool for exercising a
// MAX7301 GPIO expander from a shell: configuring port modes and
// reading or writing individual pins, over either a native SPI bus or
// a serial bridge.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/periphmax/max7301/driver/max7301"
)

func main() {
	log.SetFlags(0)
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "maxioctl: %v\n", err)
		os.Exit(2)
	}
}

func run() error {
	spiName := flag.String("spi", "", "SPI port name (empty selects the first available); mutually exclusive with -serial")
	serialDev := flag.String("serial", "", "serial bridge device, e.g. /dev/ttyUSB0; mutually exclusive with -spi")
	flag.Usage = usage
	flag.Parse()

	if *spiName != "" && *serialDev != "" {
		return fmt.Errorf("-spi and -serial are mutually exclusive")
	}
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	bus, closeBus, err := openBus(*spiName, *serialDev)
	if err != nil {
		return err
	}
	defer closeBus()
	e := max7301.New(bus)

	switch cmd, rest := args[0], args[1:]; cmd {
	case "configure":
		return runConfigure(e, rest)
	case "get":
		return runGet(e, rest)
	case "set":
		return runSet(e, rest)
	default:
		usage()
		os.Exit(2)
		return nil
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: maxioctl [-spi name | -serial dev] <command> [args]

commands:
  configure <port>=<mode>[,<port>=<mode>...]   set port modes and commit; mode is one of output, input, input-pullup
  get <port>                                   read and print a port's value
  set <port> <0|1>                             write a port's value
`)
	flag.PrintDefaults()
}

func runConfigure(e *max7301.Expander, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("configure takes exactly one argument")
	}
	c := e.Configure()
	for _, assignment := range strings.Split(args[0], ",") {
		portStr, modeStr, ok := strings.Cut(assignment, "=")
		if !ok {
			return fmt.Errorf("malformed assignment %q, want port=mode", assignment)
		}
		port, err := parsePort(portStr)
		if err != nil {
			return err
		}
		mode, err := parseMode(modeStr)
		if err != nil {
			return err
		}
		c.Port(port, mode)
	}
	return c.Commit()
}

func runGet(e *max7301.Expander, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("get takes exactly one argument")
	}
	port, err := parsePort(args[0])
	if err != nil {
		return err
	}
	v, err := e.ReadPort(port)
	if err != nil {
		return err
	}
	if v {
		fmt.Println("1")
	} else {
		fmt.Println("0")
	}
	return nil
}

func runSet(e *max7301.Expander, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("set takes exactly two arguments")
	}
	port, err := parsePort(args[0])
	if err != nil {
		return err
	}
	bit, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid value %q, want 0 or 1: %w", args[1], err)
	}
	return e.WritePort(port, bit)
}

func parsePort(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n < 4 || n > 31 {
		return 0, fmt.Errorf("invalid port %q, want a number in 4..31", s)
	}
	return uint8(n), nil
}

func parseMode(s string) (max7301.PortMode, error) {
	switch s {
	case "output":
		return max7301.Output, nil
	case "input":
		return max7301.InputFloating, nil
	case "input-pullup":
		return max7301.InputPullup, nil
	default:
		return 0, fmt.Errorf("invalid mode %q, want output, input or input-pullup", s)
	}
}
