package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "create the schema and load sample travel options",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML config",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "delete all bookings and travel options first",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.InitializeSchema(ctx, pool); err != nil {
		return err
	}
	if c.Bool("reset") {
		if err := repository.ResetData(ctx, pool); err != nil {
			return err
		}
		log.Info("existing data removed")
	}

	repo := repository.NewTravelOptionRepository(pool, repository.NewTxManager(pool), log)
	options := sampleOptions(time.Now().UTC())
	for i := range options {
		if err := repo.Create(ctx, &options[i]); err != nil {
			return fmt.Errorf("insert %s %s-%s: %w", options[i].Mode, options[i].Source, options[i].Destination, err)
		}
	}

	log.WithField("count", len(options)).Info("travel options seeded")
	return nil
}

func sampleOptions(now time.Time) []domain.TravelOption {
	day := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	option := func(mode domain.TravelMode, from, to string, departIn time.Duration, price string, seats int) domain.TravelOption {
		return domain.TravelOption{
			Mode:           mode,
			Source:         from,
			Destination:    to,
			DepartureTime:  day.Add(departIn),
			Price:          decimal.RequireFromString(price),
			TotalSeats:     seats,
			AvailableSeats: seats,
		}
	}

	return []domain.TravelOption{
		option(domain.TravelModeFlight, "Delhi", "Mumbai", 6*time.Hour, "5499.00", 180),
		option(domain.TravelModeFlight, "Mumbai", "Bengaluru", 9*time.Hour+30*time.Minute, "4299.00", 150),
		option(domain.TravelModeFlight, "Bengaluru", "Delhi", 30*time.Hour, "6199.00", 180),
		option(domain.TravelModeTrain, "Delhi", "Jaipur", 7*time.Hour, "755.00", 400),
		option(domain.TravelModeTrain, "Chennai", "Bengaluru", 14*time.Hour, "620.00", 350),
		option(domain.TravelModeTrain, "Mumbai", "Pune", 26*time.Hour, "310.00", 500),
		option(domain.TravelModeBus, "Pune", "Goa", 21*time.Hour, "1200.00", 40),
		option(domain.TravelModeBus, "Jaipur", "Agra", 8*time.Hour, "450.00", 45),
		option(domain.TravelModeBus, "Hyderabad", "Bengaluru", 46*time.Hour, "999.00", 36),
	}
}
