package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"tweetClone/crud"
	"tweetClone/database"
	"tweetClone/domain"
	"tweetClone/http"
	"tweetClone/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" to has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config file is provided before the application starts.")
	configPath := flag.String("config", ".config.json", "Path of the json config file.")
	reset := flag.Bool("reset", false, "Drop and recreate all tables before starting.")
	createUser := flag.String("create-user", "", "Create a user with this name, print its api key and exit.")
	apiKey := flag.String("api-key", "", "Api key of the user created with -create-user. Generated if empty.")
	flag.Parse()

	// Load configuration from the config file if present, otherwise use the default dev setup.
	// If *productionBool evaluates to true, that means we're in production. In that case the
	// config file is required and the app will exit if no file is found.
	config, err := LoadConfig(*productionBool, *configPath)
	log := newLogger(config)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	// Open a database connection and execute migrations.
	dbConfig := config.Database
	db := database.NewDB(dbConfig.Driver, dbConfig.ConnectionInfo())
	must(database.Open(db, config.IsProd()))
	defer database.Close(db)
	if *reset {
		log.Warn().Msg("dropping and recreating all tables")
		must(database.DestructiveReset(db))
	} else {
		must(database.AutoMigrate(db))
	}

	// Set up the store for uploaded media.
	store, mediaDir, err := newMediaStore(config.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up media store")
	}

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithLogger(&log),
		crud.WithUser(),
		crud.WithTweet(),
		crud.WithMedia(store, config.Media.MaxUploadSize),
		crud.WithFollow(),
		crud.WithLike(),
		crud.WithFeed(store),
	)
	must(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register a user and exit, if asked to.
	if *createUser != "" {
		user := &domain.User{Name: *createUser, APIKey: *apiKey}
		if err := services.User.Create(ctx, user); err != nil {
			log.Fatal().Err(err).Msg("could not create user")
		}
		fmt.Printf("created user %d %q with api key %s\n", user.ID, user.Name, user.APIKey)
		return
	}

	// Set up a webserver.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	server := http.NewServer(services, http.Config{
		Identifier:    http.NewAPIKeyIdentifier(services.User, config.APIKeyHeader),
		Logger:        &log,
		Registry:      registry,
		MediaDir:      mediaDir,
		MaxUploadSize: config.Media.MaxUploadSize,
	})

	// Shut down gracefully on SIGINT and SIGTERM.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), http.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// Serve the app.
	if err := server.Run(config.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

// newLogger returns a human friendly console logger in development and a json logger in production.
func newLogger(config Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.IsProd() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}

// newMediaStore returns the configured media store. For a local store, it also
// returns the directory to serve the files from.
func newMediaStore(mc MediaConfig) (domain.MediaStore, string, error) {
	switch mc.Store {
	case "minio":
		m := mc.Minio
		store, err := storage.NewMinioStore(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.PublicURL, m.UseSSL)
		return store, "", err
	default:
		store, err := storage.NewLocalStore(mc.Dir, mc.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
