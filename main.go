package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()
	if parameterPath := config.GetString(cfg, "SSM_PARAMETER_PATH", ""); parameterPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := config.LoadSSM(ctx, cfg, parameterPath)
		cancel()
		if err != nil {
			fmt.Printf("Error loading SSM parameters: %v\n", err)
			os.Exit(1)
		}
	}

	db, err := database.Open(cfg)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			fmt.Printf("Error generating models: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		report, err := models.ColumnMismatchReport(db)
		if err != nil {
			fmt.Printf("Error generating column report: %v\n", err)
			os.Exit(1)
		}
		models.PrintColumnMismatchReport(report)
		return
	}

	if config.GetBool(cfg, "AUTO_MIGRATE", false) {
		if err := models.Migrate(db); err != nil {
			fmt.Printf("Error migrating database: %v\n", err)
			os.Exit(1)
		}
	}

	currentDB := database.New(db)

	svcs, err := buildServices(cfg, currentDB)
	if err != nil {
		fmt.Printf("Error initializing services: %v\n", err)
		os.Exit(1)
	}

	// One slot per sender so neither Start nor listenToInterrupt blocks after
	// the first error is taken
	errChannel := make(chan error, 2)

	server, err := api.NewServer(cfg, svcs)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// buildServices wires repositories into services. Token signing and each
// notification channel are enabled only when their settings are present.
func buildServices(cfg map[string]string, db database.Database) (api.Services, error) {
	hasher := services.NewPasswordHasher(config.GetInt(cfg, "BCRYPT_COST", 12))

	var tokens *services.TokenIssuer
	if secret := config.GetString(cfg, "JWT_SECRET", ""); secret != "" {
		ttl := time.Duration(config.GetInt(cfg, "JWT_TTL_MINUTES", 60)) * time.Minute
		issuer, err := services.NewTokenIssuer(secret, ttl)
		if err != nil {
			return api.Services{}, err
		}
		tokens = issuer
	} else {
		log.Warn().Msg("JWT_SECRET not set, sign in will not issue access tokens")
	}

	var notifiers []services.Notifier
	if recipients := config.GetStrings(cfg, "CONTACT_NOTIFY_EMAILS"); len(recipients) > 0 {
		client, err := services.NewResendClient(
			config.GetString(cfg, "RESEND_API_KEY", ""),
			config.GetString(cfg, "RESEND_FROM_EMAIL", ""),
		)
		if err != nil {
			return api.Services{}, err
		}
		notifiers = append(notifiers, services.NewEmailNotifier(client, recipients))
	}
	if phones := config.GetStrings(cfg, "CONTACT_NOTIFY_PHONES"); len(phones) > 0 {
		sms, err := services.NewTwilioNotifier(
			config.GetString(cfg, "TWILIO_ACCOUNT_SID", ""),
			config.GetString(cfg, "TWILIO_AUTH_TOKEN", ""),
			config.GetString(cfg, "TWILIO_FROM_NUMBER", ""),
			phones,
		)
		if err != nil {
			return api.Services{}, err
		}
		notifiers = append(notifiers, sms)
	}

	return api.Services{
		Accounts: services.NewAccountService(db.AccountRepo(), hasher),
		Contacts: services.NewContactService(db.ContactRepo(), services.NewNotificationDispatcher(notifiers...)),
		Projects: services.NewProjectService(db.ProjectRepo()),
		Tokens:   tokens,
	}, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
