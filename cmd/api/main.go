package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Thread_of_Hope/internal/config"
	"Thread_of_Hope/internal/logging"
	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/repository/memory"
	"Thread_of_Hope/internal/repository/mysql"
	"Thread_of_Hope/internal/repository/redis"
	"Thread_of_Hope/internal/router"
	"Thread_of_Hope/internal/service"
	"Thread_of_Hope/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, &cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open datastore")
	}
	defer closeRepos()

	files, err := storage.NewDiskStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
	if err != nil {
		log.WithError(err).Fatal("prepare upload dir")
	}

	if cfg.Outbox.Enabled {
		sender, closeSender := buildSender(&cfg, log)
		defer closeSender()
		relayer := service.NewOutboxRelayer(repos.Outbox, sender, cfg.Outbox.BatchSize, cfg.Outbox.Interval, log.WithField("component", "outbox"))
		go relayer.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.InitRouter(&cfg, repos, files, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Server.Addr, "driver": cfg.Database.Driver}).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
}

// openRepositories driver=memory 时全部在进程内，否则 MySQL + Redis
func openRepositories(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (service.Repositories, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using in-memory datastore, data is lost on restart")
		store := memory.New()
		return service.Repositories{
			Stories:  store.Stories(),
			Comments: store.Comments(),
			Likes:    store.Likes(),
			Members:  store.Members(),
			Ebooks:   store.Ebooks(),
			Events:   store.Events(),
			Gallery:  store.Gallery(),
			Users:    store.Users(),
			Outbox:   store.Outbox(),
			Sessions: store.Sessions(),
			DB:       store,
		}, func() {}, nil
	}

	db, err := mysql.InitDB(cfg.Database.DSN)
	if err != nil {
		return service.Repositories{}, nil, err
	}
	// 自动建表
	if err := mysql.AutoMigrate(db); err != nil {
		return service.Repositories{}, nil, err
	}
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return service.Repositories{}, nil, err
	}
	closeAll := func() {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("close redis")
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return service.Repositories{
		Stories:  &mysql.StoryRepository{DB: db},
		Comments: &mysql.CommentRepository{DB: db},
		Likes:    &mysql.LikeRepository{DB: db},
		Members:  &mysql.MemberRepository{DB: db},
		Ebooks:   &mysql.EbookRepository{DB: db},
		Events:   &mysql.EventRepository{DB: db},
		Gallery:  &mysql.GalleryRepository{DB: db},
		Users:    &mysql.UserRepository{DB: db},
		Outbox:   &mysql.OutboxRepository{DB: db},
		Sessions: &redis.SessionRepository{Client: rdb},
		DB:       &mysql.Pinger{DB: db},
	}, closeAll, nil
}

// buildSender kafka 和 smtp 按配置叠加，都没有时只打日志
func buildSender(cfg *config.Config, log logrus.FieldLogger) (service.Sender, func()) {
	var senders []service.Sender
	closeFn := func() {}
	if cfg.Kafka.Enabled() {
		producer := pkg.NewKafkaProducer(cfg.Kafka)
		senders = append(senders, service.KafkaSender(producer))
		closeFn = func() {
			if err := producer.Close(); err != nil {
				log.WithError(err).Warn("close kafka producer")
			}
		}
	}
	if cfg.SMTP.Enabled() {
		senders = append(senders, service.EmailSender(service.SMTPMailer(cfg.SMTP), cfg.Notify.AdminEmail))
	}
	if len(senders) == 0 {
		return service.LogSender(log.WithField("component", "outbox")), closeFn
	}
	return service.MultiSender(senders...), closeFn
}
