package main

import (
	"emarket/internal/config"
	"emarket/internal/domain/model"
	"emarket/internal/handler"
	"emarket/internal/infra/db"
	infraRepo "emarket/internal/infra/repository"
	"emarket/internal/notification"
	"emarket/internal/server"
	"emarket/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//logger。本番はJSON、devは読みやすいtext
	log := logrus.New()
	if cfg.GoEnv == "prod" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusHistory{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
		&model.Review{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//発送メール。SMTP_ADDRが空ならログに書くだけ
	var notifier notification.Notifier
	if cfg.SMTPAddr != "" {
		notifier = notification.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom, nil)
	} else {
		notifier = notification.NewLogNotifier(log)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, notifier, log)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		Review:       handler.NewReviewHandler(reviewUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, handlers); err != nil {
		panic(err)
	}
}
