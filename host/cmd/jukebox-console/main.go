package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"jukebox/config"
	"jukebox/host/console"
	"jukebox/host/logging"
	"jukebox/host/serial"
	"jukebox/protocol"
)

var (
	cfgPath = flag.String("config", "", "JSON or YAML configuration file with serial settings")
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", protocol.BaudRate, "Baud rate")
	driver  = flag.String("driver", serial.DriverTarm, "Serial backend (tarm or bugst)")
	list    = flag.Bool("list", false, "List serial ports and exit")
	timeout = flag.Duration("timeout", 500*time.Millisecond, "How long to wait for a reply")
	debug   = flag.Bool("debug", false, "Enable debug logging")
	logFile = flag.String("log-file", "", "Also write JSON logs to this file")
)

func main() {
	flag.Parse()

	logger, closer, err := logging.Init(logging.Options{Debug: *debug, File: *logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if *list {
		ports, err := serial.ListPorts()
		if err != nil {
			logger.Error("port enumeration failed", "err", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	fmt.Println("Jukebox Console")
	fmt.Println("===============")
	fmt.Println()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.Driver = *driver
	if *cfgPath != "" {
		if err := applyConfigFile(cfg, *cfgPath); err != nil {
			logger.Error("config load failed", "path", *cfgPath, "err", err)
			os.Exit(1)
		}
	}

	logger.Info("connecting", "device", cfg.Device, "baud", cfg.Baud, "driver", cfg.Driver)
	client, err := console.ConnectWithConfig(cfg)
	if err != nil {
		logger.Error("connect failed", "err", err)
		os.Exit(1)
	}
	defer client.Close()

	// Replies that arrive after a command timed out are printed as they come.
	go func() {
		for line := range client.Lines() {
			fmt.Printf("< %s\n", line)
		}
		if err := client.Err(); err != nil {
			logger.Error("connection lost", "err", err)
		}
	}()

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.Fields(line)[0] {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		default:
			logger.Debug("sending", "command", line)
			if err := client.Send(line); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			// Give the jukebox a chance to answer before the next prompt.
			time.Sleep(*timeout)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("reading input failed", "err", err)
		os.Exit(1)
	}
}

// applyConfigFile takes the serial settings from path unless they were
// given on the command line.
func applyConfigFile(cfg *serial.Config, path string) error {
	fc, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["device"] && fc.Serial.Device != "" {
		cfg.Device = fc.Serial.Device
	}
	if !set["baud"] {
		cfg.Baud = fc.Serial.Baud
	}
	return nil
}

func printHelp() {
	fmt.Println("\nJukebox commands:")
	fmt.Println("  play              - Resume or start the current melody")
	fmt.Println("  stop              - Stop playback")
	fmt.Println("  pause             - Pause playback")
	fmt.Println("  speed <factor>    - Set the playback speed (minimum 0.1)")
	fmt.Println("  next              - Play the next melody")
	fmt.Println("  select <index>    - Play melody <index>")
	fmt.Println("  info              - Show the current melody")
	fmt.Println("\nConsole commands:")
	fmt.Println("  help              - Show this help message")
	fmt.Println("  quit/exit/q       - Exit the program")
	fmt.Println()
}
