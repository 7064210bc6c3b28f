// Command tally-tracker runs the two-counter goal tracker against GPIO
// buttons and accelerometer tap interrupts, persisting counters to a backup
// register file and publishing state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/tally-tracker/internal/accel"
	"github.com/sweeney/tally-tracker/internal/backup"
	"github.com/sweeney/tally-tracker/internal/buttons"
	"github.com/sweeney/tally-tracker/internal/config"
	"github.com/sweeney/tally-tracker/internal/display"
	"github.com/sweeney/tally-tracker/internal/face"
	"github.com/sweeney/tally-tracker/internal/journal"
	"github.com/sweeney/tally-tracker/internal/mqtt"
	"github.com/sweeney/tally-tracker/internal/status"
	"github.com/sweeney/tally-tracker/internal/web"
)

// tickInterval is the fixed whole-second tick the core runs on. Hold
// thresholds and the gesture millisecond clock both assume it.
const tickInterval = time.Second

func main() {
	cfgPath := flag.String("config", "", "YAML config file (flags override file values)")
	broker := flag.String("broker", "", `MQTT broker address ("off" disables MQTT)`)
	heartbeat := flag.Duration("heartbeat", -1, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", "", "HTTP status address")
	backupPath := flag.String("backup", "", "Backup register file path")
	journalPath := flag.String("journal", "", "Event journal database path")
	printState := flag.Bool("print-state", false, "Print persisted counters and exit")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *heartbeat >= 0 {
		cfg.MQTT.HeartbeatMS = int(heartbeat.Milliseconds())
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if *backupPath != "" {
		cfg.Storage.BackupPath = *backupPath
	}
	if *journalPath != "" {
		cfg.Storage.JournalPath = *journalPath
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	// Backup registers hold the persisted tallies and goals. Failing to set
	// them up is the one condition the session cannot start without.
	regs, err := backup.OpenFile(cfg.Storage.BackupPath)
	if err != nil {
		return fmt.Errorf("init backup store: %w", err)
	}
	store := backup.NewStore(regs)
	defer store.Close()

	if printState {
		tallyA, tallyB, goalA, goalB := store.Load()
		fmt.Printf("A: %d/%d, B: %d/%d\n", tallyA, goalA, tallyB, goalB)
		return nil
	}

	// Initialize GPIO
	btns, err := buttons.NewRealReader(cfg.Device.Chip, cfg.Device.PinLight, cfg.Device.PinMode, cfg.Device.PinAlarm)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer btns.Close()

	taps, err := accel.NewRealSource(cfg.Device.Chip, cfg.Device.PinTapSingle, cfg.Device.PinTapDouble)
	if err != nil {
		return fmt.Errorf("init tap source: %w", err)
	}
	defer taps.Close()

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "off" {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	// Initialize journal
	jrnl, err := journal.Open(cfg.Storage.JournalPath)
	if err != nil {
		return fmt.Errorf("init journal: %w", err)
	}
	defer jrnl.Close()

	heartbeat := time.Duration(cfg.MQTT.HeartbeatMS) * time.Millisecond

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      tickInterval.Milliseconds(),
		HeartbeatMs: int64(cfg.MQTT.HeartbeatMS),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		BackupPath:  cfg.Storage.BackupPath,
		JournalPath: cfg.Storage.JournalPath,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, jrnl)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: broker=%s heartbeat=%v backup=%s journal=%s",
		cfg.MQTT.Broker, heartbeat, cfg.Storage.BackupPath, cfg.Storage.JournalPath)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	f := face.New(store)
	f.Activate()

	return runLoop(f, btns, taps, display.NewConsole(), publisher, mqttStatus, jrnl, tracker, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(f *face.Face, btns buttons.Reader, taps accel.Source, disp display.Display, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, jrnl *journal.Journal, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	lastHeartbeat := startTime

	// Previous button levels for release-edge detection.
	var prevLight, prevMode, prevAlarm bool

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			publishShutdown(publisher, mqttStatus, tracker, now(), signalName)
			return nil

		case <-tick:
			t := now()

			light, mode, alarm, err := btns.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				continue
			}

			src, err := taps.ReadSource()
			if err != nil {
				// Hold detection still works without the accelerometer.
				log.Printf("tap source read error: %v", err)
				src = 0
			}

			res := f.Tick(face.Input{
				LightPressed: light,
				AlarmPressed: alarm,
				TapSource:    src,
				Time:         t,
				DateValid:    true,
			})
			if res.Gesture != face.GestureNone {
				log.Printf("gesture: %s", res.Gesture)
			}
			handleEvents(res.Events, publisher, jrnl, tracker)

			// Button releases drive goal adjustment and mode exits.
			var resigned bool
			if prevLight && !light {
				if !handleButton(f, face.ButtonLightUp, t, publisher, jrnl, tracker) {
					resigned = true
				}
			}
			if prevAlarm && !alarm {
				if !handleButton(f, face.ButtonAlarmUp, t, publisher, jrnl, tracker) {
					resigned = true
				}
			}
			if prevMode && !mode {
				if !handleButton(f, face.ButtonModeUp, t, publisher, jrnl, tracker) {
					resigned = true
				}
			}
			prevLight, prevMode, prevAlarm = light, mode, alarm

			disp.Show(res.Frame)

			snap := f.Snapshot()
			y, m, d := t.Date()
			date := face.Date{Year: y, Month: int(m), Day: d}
			if tracker != nil {
				tracker.Update(snap,
					face.Deficit(snap.GoalA, snap.TallyA, date),
					face.Deficit(snap.GoalB, snap.TallyB, date))
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if resigned {
				log.Printf("mode button: face resigned, shutting down")
				publishShutdown(publisher, mqttStatus, tracker, t, "MODE_BUTTON")
				return nil
			}

			// Check for heartbeat
			if publisher != nil && heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				log.Printf("heartbeat: uptime=%v", t.Sub(startTime).Truncate(time.Second))
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// handleButton feeds one button release into the face and routes any
// resulting mutations. Returns the face's continue flag.
func handleButton(f *face.Face, ev face.ButtonEvent, t time.Time, publisher mqtt.Publisher, jrnl *journal.Journal, tracker *status.Tracker) bool {
	active, events := f.HandleButton(ev, t)
	handleEvents(events, publisher, jrnl, tracker)
	return active
}

// handleEvents journals, publishes, and counts mutation events. Failures are
// logged and never interrupt the loop.
func handleEvents(events []face.Event, publisher mqtt.Publisher, jrnl *journal.Journal, tracker *status.Tracker) {
	for _, event := range events {
		log.Printf("event: %s (A=%d/%d B=%d/%d)", event.Type, event.TallyA, event.GoalA, event.TallyB, event.GoalB)
		if jrnl != nil {
			if err := jrnl.Append(event); err != nil {
				log.Printf("journal error: %v", err)
			}
		}
		if publisher != nil {
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}
	}
	if tracker != nil {
		tracker.CountEvents(events)
	}
}

func publishShutdown(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, t time.Time, reason string) {
	if publisher == nil {
		return
	}
	event := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
