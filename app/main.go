package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/sushihentaime/samyati/internal/authservice"
	"github.com/sushihentaime/samyati/internal/blogservice"
	"github.com/sushihentaime/samyati/internal/common"
	"github.com/sushihentaime/samyati/internal/notifyservice"
	"github.com/sushihentaime/samyati/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	verifier    *authservice.TokenVerifier
	userService *userservice.UserService
	blogService *blogservice.BlogService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("could not load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("could not connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	logger.Info("database connection established")

	amqpURI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	mb, err := common.NewMessageBroker(amqpURI)
	if err != nil {
		logger.Error("could not connect to message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer mb.Close()

	err = common.SetupUserExchange(mb)
	if err != nil {
		logger.Error("could not set up user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("message broker connection established")

	// Separate caches so a flush of the blog listings does not evict the
	// public profiles and vice versa.
	userCache := common.NewCache(5*time.Minute, 10*time.Minute)
	blogCache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		verifier:    authservice.NewTokenVerifier([]byte(cfg.Auth.Secret), cfg.Auth.Issuer),
		userService: userservice.NewUserService(db, mb, userCache),
		blogService: blogservice.NewBlogService(db, blogCache),
	}

	notifyService := notifyservice.NewNotifyService(mb, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Port, logger)
	notifyService.SendFollowerEmail()
	defer notifyService.Close()

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
