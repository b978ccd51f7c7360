package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
	AvatarDir    string `mapstructure:"avatar_dir" yaml:"avatar_dir"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	TokenTTL    time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`

	// OwnerUsername is the account that receives the Developer and Owner
	// roles at signup, and with them the decorated display name.
	OwnerUsername string `mapstructure:"owner_username" yaml:"owner_username"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "fakachat.db",
		AvatarDir:         "public/avatars",
		JWTSecret:         "change-me",
		JWTIssuer:         "fakachat",
		JWTAudience:       "fakachat-clients",
		TokenTTL:          24 * time.Hour,
		OwnerUsername:     "FakaSys",
		LogLevel:          "info",
	}
}
