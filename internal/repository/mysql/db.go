package mysql

import (
	"context"
	"errors"
	"time"

	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const errDupEntry = 1062

// InitDB 连接 MySQL 并配置连接池
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// AutoMigrate 启动时建表/补列
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Story{},
		&model.Comment{},
		&model.StoryLike{},
		&model.CommunityMember{},
		&model.Ebook{},
		&model.Event{},
		&model.GalleryItem{},
		&model.ModerationOutbox{},
	)
}

// Pinger 健康检查用
type Pinger struct {
	DB *gorm.DB
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate 把驱动错误收敛成仓储层的哨兵错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkg.ErrDuplicate
	}
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDupEntry {
		return pkg.ErrDuplicate
	}
	return err
}

// insertOutbox 写 outbox 事件表，必须在业务事务内调用
func insertOutbox(tx *gorm.DB, eventType string, ev model.ModerationEvent) error {
	ob, err := model.NewOutbox(eventType, ev)
	if err != nil {
		return err
	}
	return tx.Create(ob).Error
}

func withStatus(status model.ModerationStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

func paginate(page pkg.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Limit)
	}
}

// updateByID 局部更新后重新读出整行；cols 为空时只读
func updateByID(ctx context.Context, db *gorm.DB, dst any, id string, cols map[string]any) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cols) > 0 {
			if err := tx.Model(dst).Where("id = ?", id).Updates(cols).Error; err != nil {
				return err
			}
		}
		return tx.First(dst, "id = ?", id).Error
	})
	return translate(err)
}

// deleteByID 不存在时返回 ErrNotFound
func deleteByID(ctx context.Context, db *gorm.DB, value any, id string) error {
	res := db.WithContext(ctx).Delete(value, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}
