package config

import (
	"os"
)

type StripePrices struct {
	ProMonthly  string
	ProYearly   string
	ProLifetime string
	AIYearly    string
	TeamMonthly string
	TeamYearly  string
}

type Config struct {
	Addr                string
	DBUrl               string
	JWTSecret           string
	Supabase            string
	SupabaseAnonKey     string
	StripeSecretKey     string
	StripeWebhookSecret string
	Prices              StripePrices
	RedisURL            string
	ResyncSchedule      string
	BaseURL             string
}

func LoadConfig() *Config {
	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	resync := os.Getenv("SUBSCRIPTION_RESYNC_CRON")
	if resync == "" {
		resync = "5 * * * *" // toutes les heures par défaut
	}
	return &Config{
		Addr:                addr,
		DBUrl:               os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		Supabase:            os.Getenv("NEXT_PUBLIC_SUPABASE_URL"),
		SupabaseAnonKey:     os.Getenv("SUPABASE_ANON_KEY"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Prices: StripePrices{
			ProMonthly:  os.Getenv("STRIPE_PRICE_PRO_MONTHLY"),
			ProYearly:   os.Getenv("STRIPE_PRICE_PRO_YEARLY"),
			ProLifetime: os.Getenv("STRIPE_PRICE_PRO_LIFETIME"),
			AIYearly:    os.Getenv("STRIPE_PRICE_AI_YEARLY"),
			TeamMonthly: os.Getenv("STRIPE_PRICE_TEAM_MONTHLY"),
			TeamYearly:  os.Getenv("STRIPE_PRICE_TEAM_YEARLY"),
		},
		RedisURL:       os.Getenv("REDIS_URL"),
		ResyncSchedule: resync,
		BaseURL:        os.Getenv("DOMAIN_URL"),
	}
}
