package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"Campus_QA/config"
	"Campus_QA/internal/handler"
	"Campus_QA/internal/httpserver"
	"Campus_QA/internal/middleware"
	"Campus_QA/internal/pkg"
	"Campus_QA/internal/repository/mysql"
	"Campus_QA/internal/repository/redis"
	"Campus_QA/internal/router"
	"Campus_QA/internal/service"
)

func main() {
	conf, err := config.New(".env")
	if err != nil {
		log.Fatal("[CONFIG] ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mysql.InitDB(conf.MySQL.DSN); err != nil {
		log.Fatal("[MYSQL] ", err)
	}
	// 自动建表（开发阶段 OK）
	if conf.MySQL.AutoMigrate {
		if err := mysql.AutoMigrate(mysql.DB); err != nil {
			log.Fatal("[MYSQL] auto migrate: ", err)
		}
	}

	// 连接redis
	rdb, err := redis.Init(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		log.Fatal("[REDIS] ", err)
	}
	defer redis.Close()

	jwt := pkg.NewJWTManager(conf.JWT.AccessSecret, conf.JWT.RefreshSecret, conf.JWT.AccessTTL, conf.JWT.RefreshTTL)

	userRepo := mysql.NewUserRepository(mysql.DB)
	postRepo := mysql.NewPostRepository(mysql.DB)
	answerRepo := mysql.NewAnswerRepository(mysql.DB)
	outboxRepo := mysql.NewOutboxRepository(mysql.DB)
	tokenRepo := redis.NewTokenRepository(rdb, jwt.AccessTTL())

	userSvc := service.NewUserService(userRepo, tokenRepo, jwt)
	postSvc := service.NewPostService(postRepo)
	answerSvc := service.NewAnswerService(answerRepo, postRepo)

	if conf.Admin.Username != "" {
		if err := userSvc.EnsureAdmin(ctx, conf.Admin.Username, conf.Admin.Email, conf.Admin.Password); err != nil {
			log.Fatal("[ADMIN] ", err)
		}
	}

	// 版主操作事件投递：日志 + 可选的 kafka / 邮件
	senders := []service.Sender{service.LogSender}
	if len(conf.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: conf.Kafka.Brokers, Topic: conf.Kafka.Topic})
		if err != nil {
			log.Fatal("[KAFKA] ", err)
		}
		defer producer.Close()
		log.Println("[KAFKA] moderation events to topic:", producer.Topic())
		senders = append(senders, service.KafkaSender(producer))
	}
	if conf.SMTP.Host != "" {
		senders = append(senders, service.EmailSender(pkg.SMTPConfig{
			Host:     conf.SMTP.Host,
			Port:     conf.SMTP.Port,
			Username: conf.SMTP.Username,
			Password: conf.SMTP.Password,
			From:     conf.SMTP.From,
		}, userRepo, nil))
	}
	relayer := service.NewOutboxRelayer(outboxRepo, service.ChainSenders(senders...),
		conf.Outbox.BatchSize, conf.Outbox.Interval, conf.Outbox.MaxRetries)
	go relayer.Run(ctx)

	r := router.InitRouter(router.Deps{
		User:         handler.NewUserHandler(userSvc),
		Post:         handler.NewPostHandler(postSvc),
		Answer:       handler.NewAnswerHandler(answerSvc),
		Auth:         middleware.NewAuth(jwt, tokenRepo),
		AllowOrigins: conf.HTTPServer.AllowOrigins,
	})

	srv := httpserver.New(conf.HTTPServer, r)
	if err := srv.Run(ctx); err != nil {
		log.Println("[SHUTDOWN] ", err)
	}
}
