// Package storeinfra opens the durable store. Unlike the cache, the durable
// store is the system of record: failure to reach it at startup is fatal.
package storeinfra

import (
	"context"
	"log/slog"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ProvideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(&model.Channel{}, &model.Membership{}, &model.Message{}); err != nil {
		return nil, err
	}
	return db, nil
}

var Module = fx.Module("store-infra",
	fx.Provide(ProvideDB),
	fx.Invoke(func(lc fx.Lifecycle, db *gorm.DB, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				logger.Info("DURABLE_STORE_READY")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
	}),
)
