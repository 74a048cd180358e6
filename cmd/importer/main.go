package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"

	"github.com/kagabo/momoledger/internal/config"
	"github.com/kagabo/momoledger/internal/momo"
	"github.com/kagabo/momoledger/internal/notify"
	"github.com/kagabo/momoledger/internal/smsxml"
	"github.com/kagabo/momoledger/internal/storage"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <sms-backup.xml>\n", os.Args[0])
		os.Exit(1)
	}
	backupPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize the database")
	}
	if err := db.SeedCategories(); err != nil {
		log.Fatal().Err(err).Msg("failed to seed categories")
	}

	msgs, err := smsxml.Load(backupPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", backupPath).Msg("failed to load backup")
	}

	engine, err := momo.NewEngine(db, momo.Owner{
		Name:          cfg.Owner.Name,
		PhoneNumber:   cfg.Owner.PhoneNumber,
		AccountNumber: cfg.Owner.AccountNumber,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize the engine")
	}

	importer := momo.NewImporter(db, engine, cfg.Import.ChannelAddress, log)
	summary, err := importer.Run(msgs)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	printSummary(summary)

	if summary.Failed > 0 {
		unprocessed, err := db.UnprocessedMessages()
		if err != nil {
			log.Error().Err(err).Msg("failed to load unprocessed messages")
		} else {
			log.Warn().Int("unprocessed", len(unprocessed)).Msg("messages retained without a matching pattern")
		}
	}

	if cfg.Discord.BotToken != "" {
		notifier, err := notify.NewNotifier(cfg.Discord.BotToken, cfg.Discord.ChannelID)
		if err != nil {
			log.Error().Err(err).Msg("failed to create notifier")
			return
		}
		if err := notifier.PostSummary(summary); err != nil {
			log.Error().Err(err).Msg("failed to post run summary")
		}
	}
}

func printSummary(s *momo.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Run", "Total", "Parsed", "Failed", "Elapsed"})
	table.Append([]string{
		s.RunID,
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Parsed),
		strconv.Itoa(s.Failed),
		s.Elapsed.Round(time.Millisecond).String(),
	})
	table.Render()

	if len(s.ByType) == 0 {
		return
	}
	byType := tablewriter.NewWriter(os.Stdout)
	byType.SetHeader([]string{"Pattern", "Count"})
	names := make([]string, 0, len(s.ByType))
	for name := range s.ByType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		byType.Append([]string{name, strconv.Itoa(s.ByType[name])})
	}
	byType.Render()
}
