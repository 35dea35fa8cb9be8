// Command evmon watches an evsched device's telemetry over USB CDC
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evsched/host/logging"
	"evsched/host/monitor"
	"evsched/host/serial"
	"evsched/protocol"
)

var (
	device        = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud          = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	poll          = flag.Duration("poll", time.Second, "Stats poll interval, 0 to only listen")
	minFree       = flag.Uint("min-free", 4, "Warn when the free-capacity low-water mark drops below this")
	traceOnReject = flag.Bool("trace-on-reject", true, "Request a trace dump when events are rejected")
	resetStats    = flag.Bool("reset-stats", false, "Restart the device's counters and watermarks before monitoring")
	logLevel      = flag.String("log-level", "info", "Log level (trace, debug, info, warning, err)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v: %q\n", err, *logLevel)
		return 2
	}
	if *minFree > 255 {
		fmt.Fprintf(os.Stderr, "Error: -min-free must be at most 255\n")
		return 2
	}
	log := logging.New(os.Stdout, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		log.Err().Err(err).Log("connect failed")
		return 1
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		log.Warning().Err(err).Log("flush failed")
	}

	mon := monitor.New(port, log, monitor.Config{
		PollInterval:  *poll,
		MinFreeWarn:   uint8(*minFree),
		TraceOnReject: *traceOnReject,
	})

	if *resetStats {
		if err := mon.RequestResetStats(); err != nil {
			log.Err().Err(err).Log("stats reset failed")
			return 1
		}
	}

	log.Info().
		Str("device", *device).
		Str("protocol", protocol.Version).
		Dur("poll", *poll).
		Log("monitoring")

	if err := mon.Run(ctx); err != nil {
		log.Err().Err(err).Log("monitor stopped")
		return 1
	}
	log.Info().Log("bye")
	return 0
}
