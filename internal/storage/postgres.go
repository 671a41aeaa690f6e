package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/aiscribe/aiscribe-backend/internal/models"
)

// PostgresStorage implements Storage over gorm. It exists so deployments
// that need durability can swap the memory store out without changing any
// caller; semantics (day rollover, lazy token GC, linear username lookup
// replaced by an index) are kept identical.
type PostgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage connects, migrates the schema and seeds the tool
// catalog when the table is empty.
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tool{},
		&models.Generation{},
		&models.ResetToken{},
		&models.SystemLog{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	s := &PostgresStorage{db: db}
	if err := s.seedTools(); err != nil {
		return nil, err
	}

	slog.Info("database connected")
	return s, nil
}

// DB exposes the underlying handle for the log sink and health checks.
func (s *PostgresStorage) DB() *gorm.DB {
	return s.db
}

func (s *PostgresStorage) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *PostgresStorage) seedTools() error {
	var count int64
	if err := s.db.Model(&models.Tool{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count tools: %w", err)
	}
	if count > 0 {
		return nil
	}
	tools := defaultTools()
	if err := s.db.Create(&tools).Error; err != nil {
		return fmt.Errorf("failed to seed tools: %w", err)
	}
	slog.Info("tool catalog seeded", "count", len(tools))
	return nil
}

func (s *PostgresStorage) CreateUser(username, passwordHash string) (*models.User, error) {
	now := time.Now()
	user := models.User{
		Username:         username,
		Password:         passwordHash,
		Premium:          false,
		DailyGenerations: 0,
		LastGeneratedAt:  &now,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStorage) GetUser(id int) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *PostgresStorage) UpdateUserPremium(id int, premium bool) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return translateNotFound(err)
		}
		return tx.Model(&user).Update("premium", premium).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) IncrementUserGenerations(id int) (*models.User, error) {
	return s.consume(id, 0)
}

func (s *PostgresStorage) ConsumeGeneration(id, limit int) (*models.User, error) {
	return s.consume(id, limit)
}

// consume locks the user row so the quota check and the increment cannot
// interleave across concurrent requests.
func (s *PostgresStorage) consume(id, limit int) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", id).Error; err != nil {
			return translateNotFound(err)
		}

		now := time.Now()
		if limit > 0 && effectiveCount(&user, now) >= limit {
			return ErrQuotaExceeded
		}

		if user.LastGeneratedAt != nil && user.LastGeneratedAt.Day() != now.Day() {
			user.DailyGenerations = 1
		} else {
			user.DailyGenerations++
		}
		user.LastGeneratedAt = &now

		return tx.Model(&user).Updates(map[string]interface{}{
			"daily_generations": user.DailyGenerations,
			"last_generated_at": user.LastGeneratedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) ResetUserGenerations(id int) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return translateNotFound(err)
		}
		user.DailyGenerations = 0
		return tx.Model(&user).Update("daily_generations", 0).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) CreateTool(tool models.Tool) (*models.Tool, error) {
	tool.ID = 0
	if err := s.db.Create(&tool).Error; err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}
	return &tool, nil
}

func (s *PostgresStorage) GetTools() ([]models.Tool, error) {
	var tools []models.Tool
	if err := s.db.Order("id ASC").Find(&tools).Error; err != nil {
		return nil, err
	}
	return tools, nil
}

func (s *PostgresStorage) GetTool(id int) (*models.Tool, error) {
	var tool models.Tool
	if err := s.db.First(&tool, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &tool, nil
}

func (s *PostgresStorage) CreateGeneration(gen models.Generation) (*models.Generation, error) {
	gen.ID = 0
	gen.CreatedAt = time.Now()
	if err := s.db.Create(&gen).Error; err != nil {
		return nil, fmt.Errorf("failed to create generation: %w", err)
	}
	return &gen, nil
}

func (s *PostgresStorage) GetGenerations(userID int) ([]models.Generation, error) {
	var gens []models.Generation
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&gens).Error; err != nil {
		return nil, err
	}
	return gens, nil
}

func (s *PostgresStorage) GetGeneration(id int) (*models.Generation, error) {
	var gen models.Generation
	if err := s.db.First(&gen, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &gen, nil
}

func (s *PostgresStorage) DeleteGeneration(id int) (bool, error) {
	result := s.db.Delete(&models.Generation{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *PostgresStorage) StoreResetToken(username, token string, expiry time.Time) error {
	record := models.ResetToken{Token: token, Username: username, Expiry: expiry}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		UpdateAll: true,
	}).Create(&record).Error
}

func (s *PostgresStorage) VerifyResetToken(token string) (string, error) {
	var username string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		u, err := checkTokenTx(tx, token)
		if err != nil {
			return err
		}
		username = u
		return nil
	})
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *PostgresStorage) ResetPassword(token, hashedPassword string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		username, err := checkTokenTx(tx, token)
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "username = ?", username).Error; err != nil {
			return translateNotFound(err)
		}

		if err := tx.Model(&user).Update("password", hashedPassword).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ResetToken{}, "token = ?", token).Error
	})
}

// checkTokenTx locks the token row for the rest of the transaction so a
// token cannot be consumed twice under concurrent requests.
func checkTokenTx(tx *gorm.DB, token string) (string, error) {
	var record models.ResetToken
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	if record.Expiry.Before(time.Now()) {
		tx.Delete(&models.ResetToken{}, "token = ?", token)
		return "", ErrTokenExpired
	}
	return record.Username, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
