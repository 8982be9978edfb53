package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(ctx context.Context, s Settings) (*gorm.DB, error) {
	if s.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is not set")
	}

	var dialector gorm.Dialector
	switch s.DBDriver {
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: s.DatabaseDSN, PreferSimpleProtocol: true})
	case "sqlite":
		dialector = sqlite.Open(s.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if s.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	logger.WithField("driver", s.DBDriver).Info("Database connected")
	return db, nil
}

type gormLogger struct {
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

// NewGormLogger routes gorm's output through logrus.
func NewGormLogger() gormlogger.Interface {
	return &gormLogger{
		slowThreshold: 200 * time.Millisecond,
		level:         gormlogger.Warn,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		WithContext(ctx).Infof(msg, data...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx).Warnf(msg, data...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		WithContext(ctx).Errorf(msg, data...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := logrus.Fields{"elapsed": elapsed.String(), "rows": rows}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		WithContext(ctx).WithFields(fields).WithError(err).Error(sql)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		WithContext(ctx).WithFields(fields).Warn("slow query: " + sql)
	case l.level >= gormlogger.Info:
		WithContext(ctx).WithFields(fields).Debug(sql)
	}
}
