package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

type MySqlConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"3306"`
	User     string `yaml:"user" env-default:"fondeo"`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"fondeo"`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"fondeo"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"6379"`
	Password string `yaml:"password" env-default:""`
}

type TelegramConfig struct {
	Enabled     bool   `yaml:"enabled" env-default:"false"`
	ApiKey      string `yaml:"api_key" env-default:""`
	AdminChatId int64  `yaml:"admin_chat_id" env-default:"0"`
}

type StripeConfig struct {
	Enabled       bool   `yaml:"enabled" env-default:"false"`
	APIKey        string `yaml:"api_key" env-default:""`
	WebhookSecret string `yaml:"webhook_secret" env-default:""`
	SuccessUrl    string `yaml:"success_url" env-default:""`
	CancelUrl     string `yaml:"cancel_url" env-default:""`
}

type LedgerConfig struct {
	Secret        string `yaml:"secret" env-default:""`
	ProjectFee    string `yaml:"project_fee" env-default:"10000.00"`
	ReferralBonus string `yaml:"referral_bonus" env-default:"1000.00"`
}

type Config struct {
	Listen   Listen         `yaml:"listen"`
	MySql    MySqlConfig    `yaml:"mysql"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Env      string         `yaml:"env" env-default:"local"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
