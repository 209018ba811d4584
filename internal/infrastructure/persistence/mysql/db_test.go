package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpay-gateway/internal/infrastructure/config"
)

func TestDatabaseConfig_DSNForDriver(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:            "localhost",
		Port:            3306,
		User:            "root",
		Password:        "password",
		Database:        "test_db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "root:password@tcp(localhost:3306)/test_db")
	assert.Contains(t, dsn, "parseTime=True")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestDB_EnsureSchema(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantError bool
	}{
		{
			name: "正常系: テーブルを作成",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`CREATE TABLE IF NOT EXISTS payments`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "異常系: DBエラー",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`CREATE TABLE IF NOT EXISTS payments`).
					WillReturnError(errors.New("access denied"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer sqlDB.Close()

			tt.setupMock(mock)
			err = (&DB{DB: sqlDB}).EnsureSchema(context.Background())
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	assert.NoError(t, (&DB{DB: sqlDB}).HealthCheck(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, (&DB{DB: sqlDB}).HealthCheck(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
