package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config — конфигурация сервиса, целиком из переменных окружения.
type Config struct {
	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// БД
	DBHost            string `envconfig:"DB_HOST" default:"postgres"`
	DBPort            int    `envconfig:"DB_PORT" default:"5432"`
	DBUser            string `envconfig:"DB_USER" default:"fixlink"`
	DBPassword        string `envconfig:"DB_PASSWORD" default:"fixlink"`
	DBName            string `envconfig:"DB_NAME" default:"fixlink_db"`
	DBSSLMode         string `envconfig:"DB_SSLMODE" default:"disable"`
	DBTimeZone        string `envconfig:"DB_TIMEZONE" default:"UTC"`
	DBMaxOpenConns    int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifeMin  int    `envconfig:"DB_CONN_MAX_LIFETIME_MIN" default:"30"`

	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"1440"`

	// Шина событий. Пустой URL — публикация выключена.
	AMQPURL      string `envconfig:"AMQP_URL" default:""`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"fixlink.events"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	// минимальная валидация
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	return &c, nil
}
