package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	RedisURL    string `env:"REDIS_URL"`
	AmqpURL     string `env:"AMQP_URL"`
	Env         string `env:"APP_ENV" default:"dev"`

	// BookingAutoConfirm decides the initial booking status
	// (confirmed vs pending host approval). RequireVerification gates
	// booking creation on identity verification.
	BookingAutoConfirm  bool `env:"BOOKING_AUTO_CONFIRM" default:"true"`
	RequireVerification bool `env:"VERIFICATION_REQUIRED" default:"true"`
}
