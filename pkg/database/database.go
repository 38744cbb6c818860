package database

import (
	"fmt"
	"miniudemy_backend/internal/config"
	"miniudemy_backend/internal/model"
	"miniudemy_backend/pkg/logger"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models 参与自动迁移的模型，顺序满足外键依赖
var Models = []interface{}{
	&model.User{},
	&model.Category{},
	&model.Course{},
	&model.CourseCategory{},
	&model.Lesson{},
	&model.Enrollment{},
	&model.LessonProgress{},
	&model.Review{},
}

func gormConfig(mode string) *gorm.Config {
	level := gormlogger.Warn
	if mode == "debug" {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
		// 唯一约束冲突统一转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	}
}

// InitDB 按配置的驱动建立连接，migrate 为 true 时执行自动迁移
func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLiteFile(cfg.SQLitePath, gormConfig(mode))
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		db, err = gorm.Open(mysql.Open(dsn), gormConfig(mode))
	}
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Driver))

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migration completed")
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func openSQLiteFile(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gcfg)
}

// OpenSQLite 打开并迁移一个 SQLite 数据库，dsn 为 ":memory:" 时使用内存库
// 内存库只保留单个连接，否则每个新连接都会看到一个空库
func OpenSQLite(dsn string) (*gorm.DB, error) {
	gcfg := gormConfig("release")
	gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	memory := dsn == ":memory:"
	if memory {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	if memory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
