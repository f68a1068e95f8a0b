// Command gps-logger records GNSS positions from a serial receiver to an
// append-only track log and mirrors them to MQTT when the WiFi link is up.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/sweeney/gps-logger/internal/clock"
	"github.com/sweeney/gps-logger/internal/config"
	"github.com/sweeney/gps-logger/internal/core"
	"github.com/sweeney/gps-logger/internal/ingest"
	"github.com/sweeney/gps-logger/internal/led"
	"github.com/sweeney/gps-logger/internal/link"
	"github.com/sweeney/gps-logger/internal/status"
	"github.com/sweeney/gps-logger/internal/telemetry"
	"github.com/sweeney/gps-logger/internal/timesync"
	"github.com/sweeney/gps-logger/internal/tracklog"
	"github.com/sweeney/gps-logger/internal/web"
)

func main() {
	cfgPath := flag.String("config", "/etc/gps-logger.yaml", "Configuration file")
	level := flag.String("level", "", "Log level override (trace, debug, info, warn, error)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(afero.NewOsFs(), *cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	name := cfg.Logging.Level
	if *level != "" {
		name = *level
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		log.Fatal().Str("level", name).Msg("unknown log level")
	}
	log = log.Level(lvl)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	src, err := ingest.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud, log)
	if err != nil {
		return fmt.Errorf("open receiver: %w", err)
	}

	osFs := afero.NewOsFs()
	ck := clock.NewRTC(cfg.TimeSync.ZoneOffset)
	lm := link.NewManager(link.NewRealLink(cfg.WiFi.Interface, log), log)
	buf := tracklog.NewBuffer(tracklog.NewFileStore(osFs, cfg.TrackLog.Path), cfg.TrackLog.Capacity, log)

	var (
		pub      telemetry.Publisher
		backlog  func() int
		mqStatus interface{ IsConnected() bool }
	)
	if cfg.Telemetry.Broker != "" {
		mq := telemetry.NewRealPublisher(cfg.Telemetry.Broker, cfg.Telemetry.ClientID)
		buffered := telemetry.NewBuffered(mq, cfg.Telemetry.Backlog, lm.IsConnected, log)
		pub = buffered
		backlog = buffered.Backlog
		mqStatus = mq
	}

	var leds led.Setter
	if cfg.LEDEnabled() {
		rs, err := led.NewRealSetter(cfg.LED.PinLink, cfg.LED.PinFix)
		if err != nil {
			log.Warn().Err(err).Msg("status leds unavailable")
		} else {
			leds = rs
		}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		SerialDevice: cfg.Serial.Device,
		SerialBaud:   cfg.Serial.Baud,
		SSID:         cfg.WiFi.SSID,
		NTPServer:    cfg.TimeSync.Server,
		LogPath:      cfg.TrackLog.Path,
		CapacityB:    cfg.TrackLog.Capacity,
		Broker:       cfg.Telemetry.Broker,
		HTTPAddr:     cfg.HTTP.Addr,
	})

	retry, err := cfg.RetryAfter()
	if err != nil {
		return err
	}
	co := core.New(core.Options{
		Clock:      ck,
		Source:     src,
		Link:       lm,
		Creds:      link.Credentials{SSID: cfg.WiFi.SSID, Secret: cfg.WiFi.Secret},
		TimeSource: timesync.NewNTPSource(cfg.TimeSync.Server),
		Buffer:     buf,
		Publisher:  pub,
		LEDs:       leds,
		Tracker:    tracker,
		Backlog:    backlog,
		RetryAfter: retry,
		Log:        log,
	})

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("status server listening")
	}

	co.Start()
	log.Info().
		Str("device", cfg.Serial.Device).
		Str("ssid", cfg.WiFi.SSID).
		Str("log", cfg.TrackLog.Path).
		Msg("started")

	ticker := time.NewTicker(core.TickInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	err = runLoop(co, tracker, mqStatus, ticker.C, sigCh, log)
	if pub != nil {
		if cerr := pub.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close telemetry")
		}
	}
	return err
}

// runLoop drives the coordinator until a shutdown signal arrives. The tick
// and signal channels are injected so tests can run it against fakes.
func runLoop(co *core.Coordinator, tracker *status.Tracker, mqStatus interface{ IsConnected() bool }, tick <-chan time.Time, sig <-chan os.Signal, log zerolog.Logger) error {
	for {
		select {
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			co.Shutdown(signalName(s))
			return nil

		case <-tick:
			co.Tick()
			if mqStatus != nil {
				tracker.SetMQTTConnected(mqStatus.IsConnected())
			}
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
