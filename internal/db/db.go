package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harrygamon/Socials/internal/config"
)

// Models lists every table the schema owns, in migration order.
func Models() []any {
	return []any{
		&User{}, &UserLike{}, &Match{}, &Post{}, &Like{}, &Comment{},
		&Conversation{}, &Message{}, &Tier{},
	}
}

// NewDB initializes the database connection using DSN from config.
// TranslateError lets unique-constraint violations surface as
// gorm.ErrDuplicatedKey across dialects, which the match repository
// relies on to absorb concurrent duplicate creates.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
