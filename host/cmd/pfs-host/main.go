// Command pfs-host tails the fingertip sensor frame stream over a serial
// bridge and prints decoded samples.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pfsfw/host/pfs"
	"pfsfw/host/serial"
	"pfsfw/protocol"
)

func main() {
	device := flag.String("device", "/dev/ttyACM0", "serial device path")
	baud := flag.Int("baud", 115200, "baud rate")
	channels := flag.Int("channels", 13, "channel count per frame")
	recal := flag.Bool("recal", false, "request a recalibration on startup")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		logger.Fatal("opening serial port", zap.Error(err))
	}
	defer port.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := pfs.NewClient(port, *channels, logger)
	client.OnSample(func(s pfs.Sample) {
		logger.Info("sample",
			zap.Uint32("seq", s.Seq),
			zap.Bool("valid", s.Valid),
			zap.Bool("stale", s.Stale),
			zap.Float32s("values", s.Values))
	})

	if *recal {
		if err := client.SendCommand(protocol.CmdRecal); err != nil {
			logger.Fatal("sending recalibration command", zap.Error(err))
		}
		logger.Info("recalibration requested")
	}

	logger.Info("listening",
		zap.String("device", *device),
		zap.Int("channels", *channels))

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("stream terminated", zap.Error(err))
	}

	st := client.Stats()
	logger.Info("stream closed",
		zap.Uint64("frames", st.Frames),
		zap.Uint64("resyncs", st.Resyncs),
		zap.Uint64("invalid", st.Invalid),
		zap.Uint64("stale", st.Stale))
}
