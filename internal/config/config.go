package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string

	// SubscriberRadiusTiers are the selectable discovery radius caps in miles.
	SubscriberRadiusTiers []int
	// DefaultSearchRadiusMiles applies when a subscriber's stored radius is
	// not one of the configured tiers.
	DefaultSearchRadiusMiles int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	return &Config{
		Env:                      env,
		Port:                     port,
		SessionSecret:            viper.GetString("SESSION_SECRET"),
		DatabaseURL:              dbURL,
		RedisURL:                 viper.GetString("REDIS_URL"),
		FrontendURLEndsWith:      viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:              viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:        strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:           viper.GetString("HEALTH_ADMIN_KEY"),
		SubscriberRadiusTiers:    radiusTiers(viper.GetString("SUBSCRIBER_RADIUS_TIERS")),
		DefaultSearchRadiusMiles: defaultRadius(viper.GetString("DEFAULT_SEARCH_RADIUS_MILES")),
	}, nil
}

func radiusTiers(s string) []int {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{25, 50, 100}
	}
	var tiers []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n > 0 {
			tiers = append(tiers, n)
		}
	}
	if len(tiers) == 0 {
		return []int{25, 50, 100}
	}
	return tiers
}

func defaultRadius(s string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
		return n
	}
	return 50
}

// RadiusFor returns the effective discovery radius for a subscriber's stored
// preference: the preference when it matches a configured tier, otherwise the
// default.
func (c *Config) RadiusFor(preferred int) int {
	for _, t := range c.SubscriberRadiusTiers {
		if t == preferred {
			return t
		}
	}
	return c.DefaultSearchRadiusMiles
}
