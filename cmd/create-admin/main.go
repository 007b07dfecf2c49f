package main

import (
	"context"
	"flag"
	"time"

	"Thread_of_Hope/internal/config"
	"Thread_of_Hope/internal/logging"
	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/repository/memory"
	"Thread_of_Hope/internal/repository/mysql"
	"Thread_of_Hope/internal/service"

	"github.com/sirupsen/logrus"
)

// 创建或提升管理员账号：create-admin -email admin@example.com -password xxx -name Admin
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 6 chars)")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Log.Level, "text")
	if *email == "" || *password == "" {
		log.Fatal("-email and -password are required")
	}
	if cfg.Database.Driver == config.DriverMemory {
		log.Fatal("create-admin needs a persistent datastore, database.driver is memory")
	}

	db, err := mysql.InitDB(cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Fatal("connect mysql")
	}
	if err := mysql.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	// 只用到用户表，会话存储不需要 redis
	auth := service.NewAuthService(&mysql.UserRepository{DB: db}, memory.NewSessionRepository(time.Now),
		pkg.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), cfg.Auth.SessionTTL)
	user, created, err := auth.EnsureAdmin(ctx, *email, *password, *name)
	if err != nil {
		log.WithError(err).Fatal("ensure admin")
	}
	log.WithFields(logrus.Fields{"id": user.ID, "email": user.Email, "created": created}).Info("admin account ready")
}
