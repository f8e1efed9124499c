package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/astrofinix/Revelax/internal/domain"
)

// MigrateDB handles all database migrations using the provided GORM DB instance.
// 返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	// 迁移 Rooms 表 (字符串索引列需要显式长度，用自定义 SQL 创建)
	if err := migrateRoomsTable(db); err != nil {
		return fmt.Errorf("failed to migrate rooms table: %w", err)
	}

	// 其余模型交给 AutoMigrate (会补齐新列和索引)
	if err := db.AutoMigrate(&domain.Player{}); err != nil {
		logrus.Errorf("Failed to auto-migrate player table: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateRoomsTable 处理 Rooms 表迁移
func migrateRoomsTable(db *gorm.DB) error {
	var count int64
	db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'rooms'").Count(&count)

	if count == 0 {
		return createRoomsTable(db)
	}
	return updateRoomsTable(db)
}

// createRoomsTable 创建 rooms 表
func createRoomsTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE rooms (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(191) NOT NULL,
		name VARCHAR(191) NOT NULL,
		admin_id VARCHAR(64),
		state VARCHAR(16) NOT NULL DEFAULT 'waiting',
		game_mode VARCHAR(32),
		created_at DATETIME(3),
		last_active DATETIME(3),
		updated_at DATETIME(3),
		INDEX idx_admin_id (admin_id),
		INDEX idx_last_active (last_active),
		UNIQUE INDEX idx_room_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create rooms table: %v", err)
		return fmt.Errorf("failed to create rooms table: %w", err)
	}
	logrus.Info("Rooms table created successfully")
	return nil
}

// updateRoomsTable 让 AutoMigrate 校正已存在的表结构
func updateRoomsTable(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Room{}); err != nil {
		logrus.Errorf("Failed to auto-migrate Room table for index updates: %v", err)
		return fmt.Errorf("failed to migrate room indexes: %w", err)
	}
	logrus.Info("Rooms table schema checked/updated successfully")
	return nil
}
