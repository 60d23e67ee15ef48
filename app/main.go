package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/adiwicaksono/warta/internal/activityservice"
	"github.com/adiwicaksono/warta/internal/categoryservice"
	"github.com/adiwicaksono/warta/internal/common"
	"github.com/adiwicaksono/warta/internal/mailservice"
	"github.com/adiwicaksono/warta/internal/postservice"
	"github.com/adiwicaksono/warta/internal/userservice"
)

type application struct {
	config          *Config
	logger          *slog.Logger
	loc             *time.Location
	userService     *userservice.UserService
	postService     *postservice.PostService
	categoryService *categoryservice.CategoryService
	activityService *activityservice.ActivityService
	mailService     *mailservice.MailService
	broker          *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		logger.Error("failed to load display timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	if err := common.SetupUserExchange(broker); err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := common.SetupActivityExchange(broker); err != nil {
		logger.Error("failed to setup the activity exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewMemoryCache(5*time.Minute, 10*time.Minute)
	recorder := activityservice.NewBrokerRecorder(broker, logger)

	app := &application{
		config:          cfg,
		logger:          logger,
		loc:             loc,
		userService:     userservice.NewUserService(db, broker, cache),
		postService:     postservice.NewPostService(db, cache, recorder, loc),
		categoryService: categoryservice.NewCategoryService(db),
		activityService: activityservice.NewActivityService(db, logger),
		mailService:     mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.BaseURL, cfg.MailPort, logger),
		broker:          broker,
	}
	defer app.activityService.Close()
	defer app.mailService.Close()

	// background consumers
	app.mailService.SendActivationEmail()
	app.activityService.ConsumeActivity(broker)

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
