package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	gosqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/biz/internal/domain/model"
	"github.com/okian/biz/pkg/logger"
	"github.com/okian/biz/pkg/metrics"
)

const mysqlDependency = "mysql"

// MySQLConfig locates the MySQL database.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN renders the go-sql-driver connection string.
func (c MySQLConfig) DSN() string {
	mc := gosqldriver.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// MySQLStore implements Records over gorm.
type MySQLStore struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger logger.Logger
}

// OpenMySQL connects to cfg and applies pool settings.
func OpenMySQL(cfg MySQLConfig, opts ...Option) (*MySQLStore, error) {
	return openMySQL(mysql.Open(cfg.DSN()), &gorm.Config{}, opts)
}

// NewMySQLStoreFromConn wraps an existing *sql.DB (tests use sqlmock).
func NewMySQLStoreFromConn(conn *sql.DB, opts ...Option) (*MySQLStore, error) {
	dialector := mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true})
	return openMySQL(dialector, &gorm.Config{DisableAutomaticPing: true}, opts)
}

func openMySQL(dialector gorm.Dialector, gormCfg *gorm.Config, opts []Option) (*MySQLStore, error) {
	s := newSettings(opts)

	gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: mysql: %w", ErrOpen, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: mysql pool: %w", ErrOpen, err)
	}
	sqlDB.SetMaxOpenConns(s.maxOpenConns)
	sqlDB.SetMaxIdleConns(s.maxIdleConns)
	sqlDB.SetConnMaxLifetime(s.connMaxLifetime)

	return &MySQLStore{db: db, sqlDB: sqlDB, logger: s.logger}, nil
}

// Ping checks the connection.
func (s *MySQLStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.sqlDB.PingContext(ctx)
	metrics.RecordProbe(mysqlDependency, "ping", err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug(ctx, "mysql ping failed", logger.Error(err))
		return fmt.Errorf("mysql ping: %w", err)
	}
	return nil
}

// Migrate creates or updates the test_records table.
func (s *MySQLStore) Migrate(ctx context.Context) error {
	start := time.Now()
	err := s.db.WithContext(ctx).AutoMigrate(&model.TestRecord{})
	metrics.RecordProbe(mysqlDependency, "migrate", err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("mysql migrate: %w", err)
	}
	return nil
}

// Insert writes rec and fills in its ID.
func (s *MySQLStore) Insert(ctx context.Context, rec *model.TestRecord) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(rec).Error
	metrics.RecordProbe(mysqlDependency, "insert", err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("mysql insert: %w", err)
	}
	return nil
}

// Recent returns up to n rows, newest first.
func (s *MySQLStore) Recent(ctx context.Context, n int) ([]model.TestRecord, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	start := time.Now()
	var records []model.TestRecord
	err := s.db.WithContext(ctx).Order("id desc").Limit(n).Find(&records).Error
	metrics.RecordProbe(mysqlDependency, "query", err == nil, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("mysql recent: %w", err)
	}
	return records, nil
}

// Close releases the pool.
func (s *MySQLStore) Close() error {
	return s.sqlDB.Close()
}
