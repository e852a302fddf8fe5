// Command itip-snapshot extracts an ItipSnapshots view from a single
// iCalendar file and prints a JSON summary, mainly as a way to exercise
// internal/itip end to end outside of a full groupware server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/sonroyaalmerol/itip-snapshot/internal/config"
	"github.com/sonroyaalmerol/itip-snapshot/internal/itip"
	"github.com/sonroyaalmerol/itip-snapshot/internal/logging"
	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// CLI is the single-command entry point: extract a snapshot from a file.
type CLI struct {
	File                     string   `arg:"" name:"file" type:"path" help:"Path to an iCalendar (.ics) file."`
	Account                  []string `name:"account" short:"a" help:"Locally-owned account address; repeatable. Falls back to ITIP_ACCOUNT_ADDRESSES."`
	ForceAddClientScheduling bool     `name:"force-add-client-scheduling" help:"Accept SCHEDULE-AGENT=CLIENT organizers instead of rejecting the document."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("itip-snapshot"),
		kong.Description("Extract a normalized ItipSnapshots view from an iCalendar object."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With().Str("run_id", uuid.New().String()).Logger()

	accounts := cli.Account
	if len(accounts) == 0 {
		accounts = cfg.AccountAddresses
	}

	data, err := os.ReadFile(cli.File)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cli.File).Msg("read calendar file")
	}

	cal, err := ical.Decode(data)
	if err != nil {
		logger.Fatal().Err(err).Msg("decode calendar")
	}

	snap, err := itip.ExtractSnapshot(cal, itip.NewAccountSet(accounts), cli.ForceAddClientScheduling)
	if err != nil {
		logger.Error().Err(err).Msg("extract snapshot")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(summarize(snap), "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("marshal summary")
	}
	fmt.Println(string(out))
}

type summary struct {
	UID                string             `json:"uid"`
	Organizer          string             `json:"organizer"`
	ServerScheduling   bool               `json:"server_scheduling"`
	Instances          []instanceSummary  `json:"instances"`
}

type instanceSummary struct {
	Instance  string   `json:"instance"`
	Sequence  *int64   `json:"sequence,omitempty"`
	Dtstamp   string   `json:"dtstamp,omitempty"`
	Attendees []string `json:"attendees"`
}

func summarize(snap *itip.ItipSnapshots) summary {
	s := summary{
		UID:              snap.UID,
		Organizer:        snap.Organizer.Email.Address,
		ServerScheduling: snap.Organizer.IsServerScheduling,
	}
	for id, inst := range snap.Components {
		is := instanceSummary{Instance: instanceLabel(id)}
		if inst.Sequence != nil {
			is.Sequence = inst.Sequence
		}
		if inst.Dtstamp != nil {
			if ts, ok := inst.Dtstamp.ToTimestamp(); ok {
				is.Dtstamp = time.Unix(ts, 0).UTC().Format(time.RFC3339)
			}
		}
		for _, a := range inst.Attendees.Slice() {
			is.Attendees = append(is.Attendees, a.Email.Address)
		}
		s.Instances = append(s.Instances, is)
	}
	return s
}

func instanceLabel(id itip.InstanceID) string {
	if id.Kind == itip.InstanceMain {
		return "main"
	}
	return fmt.Sprintf("recurrence@%d", id.Recurrence.Date)
}
