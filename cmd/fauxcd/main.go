package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"fauxcd/internal/config"
	"fauxcd/internal/control"
	"fauxcd/internal/device"
	"fauxcd/internal/mci"
	"fauxcd/internal/transport"
	"fauxcd/internal/transport/beepout"
	"fauxcd/internal/transport/oneshot"
)

// Handle the bundled front ends register the device under. A real host
// dispatcher assigns its own.
const localHandle = 1

var (
	configPath = flag.String("config", getDefaultConfigPath(), "Path to configuration file")
	trackDir   = flag.String("dir", "", "Override directory containing track files")
	backend    = flag.String("backend", "", "Override playback backend (beep or oneshot)")
	listenAddr = flag.String("addr", "", "Override control server listen address")
	daemonMode = flag.Bool("daemon", false, "Run the TCP control server (otherwise interactive console)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Apply command line overrides
	if *trackDir != "" {
		cfg.TrackDir = *trackDir
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *listenAddr != "" {
		cfg.Control.ListenAddr = *listenAddr
	}

	tr, err := newTransport(cfg)
	if err != nil {
		log.Fatalf("Failed to create transport: %v", err)
	}

	dev := device.New(device.Config{
		TrackDir:   cfg.TrackDir,
		FirstTrack: cfg.FirstTrack,
		MaxTrack:   cfg.MaxTrack,
	}, tr)

	exec := control.NewExecutor(mci.NewDriver(dev), localHandle)

	if *daemonMode {
		runDaemon(cfg, exec)
		return
	}

	runConsole(exec)

	// Best effort: release any live playback session on the way out.
	dev.Close()
}

// newTransport builds the playback backend named by the config
func newTransport(cfg *config.Config) (transport.Transport, error) {
	switch cfg.Backend {
	case "beep":
		return beepout.New(), nil
	case "oneshot":
		return oneshot.New(cfg.Oneshot.PlayerCmd), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// runDaemon serves the TCP control protocol until interrupted
func runDaemon(cfg *config.Config, exec *control.Executor) {
	server := control.NewServer(cfg.Control.ListenAddr, exec)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start control server: %v", err)
	}
	defer server.Stop()

	log.Printf("fauxcd running in daemon mode")
	log.Printf("Track directory: %s", cfg.TrackDir)
	log.Printf("Connect to %s to control the device", cfg.Control.ListenAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Printf("\nShutting down...")

	// Close the device so the transport session is torn down.
	fmt.Print(exec.Execute("close"))
}

// runConsole runs the interactive command loop
func runConsole(exec *control.Executor) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "fauxcd> "})
	if err != nil {
		log.Fatalf("Failed to init console: %v", err)
	}
	defer rl.Close()

	fmt.Println("fauxcd interactive console. Commands: open, close, play [from [to]],")
	fmt.Println("stop, pause, resume, seek <track>, status <item> [track], caps <item>,")
	fmt.Println("format <tmsf|msf|ms>, type <name>, quit")

	for {
		line, err := rl.Readline()
		if err != nil {
			// io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			if err == readline.ErrInterrupt || err == io.EOF {
				return
			}
			log.Printf("Read error: %v", err)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		fmt.Print(exec.Execute(line))
	}
}

func getDefaultConfigPath() string {
	// Check common locations
	locations := []string{
		"./fauxcd.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "fauxcd", "config.yaml"),
		"/etc/fauxcd/config.yaml",
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	// Default to first location if none exist
	return locations[0]
}
