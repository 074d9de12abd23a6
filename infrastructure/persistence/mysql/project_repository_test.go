package mysql

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"ddd-skeleton/config"
	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"
	"ddd-skeleton/infrastructure/persistence/contract"
	"ddd-skeleton/infrastructure/persistence/mysql/po"
	"ddd-skeleton/infrastructure/persistence/retry"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MYSQL_TEST_DSN example: root:secret@tcp(localhost:3306)/ledger_test?parseTime=true
const dsnEnvKey = "MYSQL_TEST_DSN"

func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn, ok := os.LookupEnv(dsnEnvKey)
	if !ok {
		tb.Skipf("%s not set, skipping MySQL integration tests", dsnEnvKey)
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(tb, err)
	require.NoError(tb, AutoMigrate(db))
	return db
}

func TestProjectRepositoryContract(t *testing.T) {
	db := openTestDB(t)

	contract.Repository{
		Subject: func(tb testing.TB) project.Repository {
			require.NoError(tb, db.Exec("DELETE FROM project_owners").Error)
			require.NoError(tb, db.Exec("DELETE FROM projects").Error)
			return NewProjectRepository(db, retry.DefaultConfig)
		},
	}.Test(t)
}

func TestUnitOfWorkRollsBackEverySave(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("DELETE FROM project_owners").Error)
	require.NoError(t, db.Exec("DELETE FROM projects").Error)

	ctx := context.Background()
	repo := NewProjectRepository(db, retry.DefaultConfig)
	uow := NewUnitOfWork(db, retry.DefaultConfig)
	owner, err := project.NewOwner("alice@example.com")
	require.NoError(t, err)

	boom := errors.New("abort")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		for _, id := range []int64{1, 2} {
			p, err := project.NewProject(id, "ledger", shared.MustMoney(100, "CNY"), owner)
			if err != nil {
				return err
			}
			if err := repo.Save(ctx, p); err != nil {
				return err
			}
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = uow.Execute(ctx, func(ctx context.Context) error {
		p, err := project.NewProject(3, "ledger", shared.MustMoney(100, "CNY"), owner)
		if err != nil {
			return err
		}
		return repo.Save(ctx, p)
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, got.OwnerEmails())
}

func TestUnitOfWorkDoesNotRetryConflicts(t *testing.T) {
	uow := NewUnitOfWork(nil, retry.DefaultConfig)

	assert.False(t, uow.retryConfig.RetryOnConflict)
	assert.True(t, uow.retryConfig.RetryOnDeadlock)
	assert.True(t, retry.DefaultConfig.RetryOnConflict, "the shared default is left untouched")
}

func TestNewConfigFromAppConfig(t *testing.T) {
	cfg := NewConfig(config.MySQLConfig{
		Host:          "db.internal",
		Port:          "3307",
		Username:      "ledger",
		Password:      "s3cret",
		Database:      "ledger",
		LogLevel:      "silent",
		SlowThreshold: 150 * time.Millisecond,
	})
	assert.Equal(t, 150*time.Millisecond, cfg.SlowThreshold)

	parsed, err := mysqlDriver.ParseDSN(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "ledger", parsed.User)
	assert.Equal(t, "s3cret", parsed.Passwd)
	assert.Equal(t, "ledger", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 10*time.Second, parsed.ReadTimeout)

	assert.Equal(t, gormlogger.Silent, cfg.parseLogLevel())
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{MaxOpenConns: 4, MaxIdleConns: 8}
	cfg.applyDefaults()

	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 4, cfg.MaxIdleConns, "idle connections are capped by open connections")
	assert.Equal(t, DefaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, DefaultConnMaxIdleTime, cfg.ConnMaxIdleTime)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "projects", po.ProjectPO{}.TableName())
	assert.Equal(t, "project_owners", po.ProjectOwnerPO{}.TableName())
}
