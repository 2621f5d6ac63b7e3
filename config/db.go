package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"frontdesk-backend/models"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "frontdesk_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase inserts the default admin, the room type catalogue, a set of
// physical rooms, the hotel settings row, and the sweep watermark. All
// inserts are skipped when rows already exist.
func SeedDatabase() {
	var adminCount int64
	DB.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				FullName: "Admin User",
				Username: envOrDefault("ADMIN_USERNAME", "admin@hotel.local"),
				Password: string(hash),
				Role:     "owner",
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var rtCount int64
	DB.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: models.RoomTypeStandard, Description: "Standard Room", BasePrice: 80, MaxGuests: 2},
			{TypeName: models.RoomTypeDeluxe, Description: "Deluxe Room", BasePrice: 120, MaxGuests: 3},
			{TypeName: models.RoomTypeSuite, Description: "Suite", BasePrice: 200, MaxGuests: 4},
			{TypeName: models.RoomTypeFamily, Description: "Family Room", BasePrice: 160, MaxGuests: 5},
		}
		DB.Create(&roomTypes)
		log.Println("RoomTypes seeded")
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", Type: models.RoomTypeStandard, Status: models.RoomStatusAvailable, Floor: "1", Price: 80, MaxOccupancy: 2, IsActive: true},
			{RoomNumber: "102", Type: models.RoomTypeStandard, Status: models.RoomStatusAvailable, Floor: "1", Price: 80, MaxOccupancy: 2, IsActive: true},
			{RoomNumber: "103", Type: models.RoomTypeFamily, Status: models.RoomStatusAvailable, Floor: "1", Price: 160, MaxOccupancy: 5, IsActive: true},
			{RoomNumber: "201", Type: models.RoomTypeDeluxe, Status: models.RoomStatusAvailable, Floor: "2", Price: 120, MaxOccupancy: 3, IsActive: true},
			{RoomNumber: "202", Type: models.RoomTypeDeluxe, Status: models.RoomStatusAvailable, Floor: "2", Price: 120, MaxOccupancy: 3, IsActive: true},
			{RoomNumber: "301", Type: models.RoomTypeSuite, Status: models.RoomStatusAvailable, Floor: "3", Price: 200, MaxOccupancy: 4, IsActive: true},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}

	var settingCount int64
	DB.Model(&models.HotelSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.HotelSetting{
			Name:  envOrDefault("HOTEL_NAME", "Frontdesk Hotel"),
			Email: envOrDefault("HOTEL_EMAIL", ""),
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		}
	}

	var sweepCount int64
	DB.Model(&models.SweepState{}).Count(&sweepCount)
	if sweepCount == 0 {
		if err := DB.Create(&models.SweepState{LastRunAt: time.Time{}}).Error; err != nil {
			log.Printf("warning: failed to seed sweep state: %v", err)
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.Admin{},
		&models.HotelSetting{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.Expense{},
		&models.Invoice{},
		&models.SweepState{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
