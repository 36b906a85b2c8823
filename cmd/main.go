package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixlink/marketplace-core/internal/auth"
	"github.com/fixlink/marketplace-core/internal/config"
	"github.com/fixlink/marketplace-core/internal/db"
	"github.com/fixlink/marketplace-core/internal/model"
	"github.com/fixlink/marketplace-core/internal/mq"
	"github.com/fixlink/marketplace-core/internal/repository"
	"github.com/fixlink/marketplace-core/internal/service"
	transport "github.com/fixlink/marketplace-core/internal/transport/http"
)

func main() {
	// 1. Загружаем конфиг из env.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	userRepo := repository.NewGormUserRepository(gormDB)
	serviceRepo := repository.NewGormServiceRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	chatRepo := repository.NewGormChatRepository(gormDB)

	// 5. Шина событий — опциональна, без неё публикация выключена.
	var pub *mq.Publisher
	if cfg.AMQPURL != "" {
		pub, err = mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("init publisher: %v", err)
		}
		defer pub.Close()
	}

	// 6. Сервисы.
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)
	identitySvc := service.NewIdentityService(userRepo, tokens)
	bookingSvc := service.NewBookingService(bookingRepo, serviceRepo, userRepo, pub)
	catalogSvc := service.NewCatalogService(serviceRepo)
	chatSvc := service.NewChatService(chatRepo, userRepo, pub)
	adminSvc := service.NewAdminService(userRepo, serviceRepo, bookingRepo)

	// 7. HTTP-сервер.
	router := transport.NewRouter(tokens, transport.Handlers{
		Identity: transport.NewIdentityHandler(identitySvc),
		Booking:  transport.NewBookingHandler(bookingSvc),
		Catalog:  transport.NewCatalogHandler(catalogSvc),
		Chat:     transport.NewChatHandler(chatSvc),
		Admin:    transport.NewAdminHandler(adminSvc),
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	log.Printf("marketplace API listening on %s", cfg.HTTPAddr)

	// 8. Запускаем сервер в горутине.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	// 9. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
