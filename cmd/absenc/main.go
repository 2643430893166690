package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/yunginnanet/ftdi-absenc/pkg/absenc"
	"github.com/yunginnanet/ftdi-absenc/pkg/ads1256"
	"github.com/yunginnanet/ftdi-absenc/pkg/config"
	"github.com/yunginnanet/ftdi-absenc/pkg/ft232h"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	log = zerolog.New(cw).With().Timestamp().Logger()
}

type options struct {
	configPath string
	replayPath string
	every      int
	debug      bool
}

func flags() options {
	cfgp := flag.String("config", "", "YAML config file (defaults to one encoder on AIN0)")
	rep := flag.String("replay", "", "replay raw samples from a file instead of reading the ADC")
	every := flag.Int("every", 100, "log every Nth reading per encoder")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()
	return options{configPath: *cfgp, replayPath: *rep, every: *every, debug: *debug}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// connect brings up the bridge and the ADC and returns one source per configured encoder.
func connect(cfg config.Config) ([]absenc.Source, *ads1256.ADS1256, error) {
	desc := ft232h.ByIndex(cfg.Bridge.Index)
	if cfg.Bridge.Serial != "" {
		desc = ft232h.BySerial(cfg.Bridge.Serial)
	}

	spi, err := ft232h.ConnectFT232h(desc)
	if err != nil {
		return nil, nil, err
	}
	spi.SetLogger(log)

	log.Info().Any("info", spi.Info()).Msgf("connected to FT232H: %s", spi)

	err = errors.Join(
		spi.SetPWDN(cfg.Bridge.PWDN),
		spi.SetDRDY(cfg.Bridge.DRDY),
		spi.SetCSPin(cfg.Bridge.CS),
	)
	if err == nil {
		err = spi.ConfigureSPI(cfg.Bridge.Clock, cfg.Bridge.CS)
	}
	if err != nil {
		return nil, nil, errors.Join(err, spi.Close())
	}

	adc := ads1256.NewADS1256(spi, ads1256.WithLogger(log))

	adcCfg := cfg.ADS1256()
	log.Debug().Any("config", adcCfg).Msg("initializing ADS1256")
	if err = adc.Initialize(adcCfg); err != nil {
		return nil, nil, errors.Join(err, adc.Close())
	}

	log.Info().Msg("initialized ADS1256")

	sources := make([]absenc.Source, 0, len(cfg.Encoders))
	for _, e := range cfg.Encoders {
		sources = append(sources, ads1256.NewChannelSource(adc, e.Pair(), cfg.CalibrationFor(e).FullScale))
	}
	return sources, adc, nil
}

func newPoller(cfg config.Config, sources []absenc.Source, every int) *absenc.Poller {
	counts := make(map[string]int, len(cfg.Encoders))
	poller := absenc.NewPoller(cfg.Interval,
		absenc.WithLogger(log),
		absenc.WithCallback(func(r absenc.Reading) {
			counts[r.Name]++
			if every > 0 && counts[r.Name]%every != 0 {
				return
			}
			log.Info().
				Str("encoder", r.Name).
				Float64("angle", r.Angle).
				Float64("unwrapped", r.Unwrapped).
				Float64("relative", r.Relative).
				Int32("turns", r.Turns).
				Msg("position")
		}),
	)

	for i, e := range cfg.Encoders {
		tr := absenc.NewTracker(sources[i], cfg.CalibrationFor(e))
		if e.Reversed {
			tr.Reverse()
		}
		log.Debug().Str("encoder", e.Name).Stringer("calibration", tr.Calibration()).Bool("reversed", e.Reversed).Msg("tracking")
		poller.Add(e.Name, tr)
	}
	return poller
}

func main() {
	opts := flags()
	if !opts.debug {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if opts.replayPath != "" {
		if err = replay(cfg, opts); err != nil {
			log.Fatal().Err(err).Msg("replay failed")
		}
		return
	}

	sources, adc, err := connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bring up ADC")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := newPoller(cfg, sources, opts.every)
	runErr := poller.Run(ctx)

	for _, r := range poller.Snapshot() {
		log.Info().Str("encoder", r.Name).Float64("unwrapped", r.Unwrapped).Int32("turns", r.Turns).Msg("final position")
	}

	if err = adc.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close ADS1256")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("polling stopped")
	}

	log.Info().Msg("closed ADS1256")
}
