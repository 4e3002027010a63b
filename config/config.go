package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ProviderOpenAI      = "openai"
	ProviderEdamam      = "edamam"
	ProviderRekognition = "rekognition"

	TranslatorNone = "none"
	TranslatorAWS  = "aws"

	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	SessionMemory = "memory"
	SessionDynamo = "dynamodb"
)

type Config struct {
	Token    string
	ProxyURL string
	Port     string
	Location *time.Location
	LogLevel string

	NutritionProvider string
	VisionProvider    string
	Translator        string
	LookupConcurrency int

	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAIVisionModel string
	EdamamAppID       string
	EdamamAppKey      string

	LogBackend      string
	SpreadsheetName string
	SpreadsheetID   string
	SheetName       string
	GCPCredentials  string

	DBHost, DBUser, DBPassword, DBName, DBPort string
	SQLitePath                                 string

	AWSRegion    string
	S3Bucket     string
	PhotoBaseURL string
	SNSTopicArn  string

	SessionBackend string
	SessionTable   string
	SessionTTL     time.Duration

	JWTSecret string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("nutrition_provider", ProviderOpenAI)
	v.SetDefault("vision_provider", ProviderOpenAI)
	v.SetDefault("translator", TranslatorNone)
	v.SetDefault("lookup_concurrency", 1)
	v.SetDefault("openai_model", "gpt-3.5-turbo")
	v.SetDefault("openai_vision_model", "gpt-4o")
	v.SetDefault("log_backend", BackendSheets)
	v.SetDefault("spreadsheet_name", "FoodLog")
	v.SetDefault("sheet_name", "log")
	v.SetDefault("sqlite_path", "foodlog.db")
	v.SetDefault("db_port", "5432")
	v.SetDefault("session_backend", SessionMemory)
	v.SetDefault("session_ttl", time.Duration(0))
}

// Load reads .env (when present) and the environment into a Config.
// Flags bound to v by the caller take precedence over the environment.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Token:    v.GetString("token"),
		ProxyURL: v.GetString("proxy_url"),
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),

		NutritionProvider: strings.ToLower(v.GetString("nutrition_provider")),
		VisionProvider:    strings.ToLower(v.GetString("vision_provider")),
		Translator:        strings.ToLower(v.GetString("translator")),
		LookupConcurrency: v.GetInt("lookup_concurrency"),

		OpenAIKey:         v.GetString("openai_api_key"),
		OpenAIBaseURL:     v.GetString("openai_base_url"),
		OpenAIModel:       v.GetString("openai_model"),
		OpenAIVisionModel: v.GetString("openai_vision_model"),
		EdamamAppID:       v.GetString("edamam_app_id"),
		EdamamAppKey:      v.GetString("edamam_app_key"),

		LogBackend:      strings.ToLower(v.GetString("log_backend")),
		SpreadsheetName: v.GetString("spreadsheet_name"),
		SpreadsheetID:   v.GetString("spreadsheet_id"),
		SheetName:       v.GetString("sheet_name"),
		GCPCredentials:  v.GetString("gcp_credentials_json"),

		DBHost:     v.GetString("db_host"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		DBPort:     v.GetString("db_port"),
		SQLitePath: v.GetString("sqlite_path"),

		AWSRegion:    v.GetString("aws_region"),
		S3Bucket:     v.GetString("s3_bucket"),
		PhotoBaseURL: v.GetString("photo_base_url"),
		SNSTopicArn:  v.GetString("sns_topic_arn"),

		SessionBackend: strings.ToLower(v.GetString("session_backend")),
		SessionTable:   v.GetString("session_table"),
		SessionTTL:     v.GetDuration("session_ttl"),

		JWTSecret: v.GetString("jwt_secret"),
	}

	cfg.Location = time.Local
	if tz := v.GetString("timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every selected backend has what it needs.
func (c *Config) Validate() error {
	var errs []error
	need := func(val, key string) {
		if strings.TrimSpace(val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	need(c.Token, "TOKEN")
	if c.LookupConcurrency < 1 {
		errs = append(errs, errors.New("LOOKUP_CONCURRENCY must be at least 1"))
	}

	switch c.NutritionProvider {
	case ProviderOpenAI:
		need(c.OpenAIKey, "OPENAI_API_KEY")
	case ProviderEdamam:
		need(c.EdamamAppID, "EDAMAM_APP_ID")
		need(c.EdamamAppKey, "EDAMAM_APP_KEY")
	default:
		errs = append(errs, fmt.Errorf("unknown NUTRITION_PROVIDER %q", c.NutritionProvider))
	}

	switch c.VisionProvider {
	case ProviderOpenAI:
		need(c.OpenAIKey, "OPENAI_API_KEY")
	case ProviderRekognition:
		need(c.AWSRegion, "AWS_REGION")
	default:
		errs = append(errs, fmt.Errorf("unknown VISION_PROVIDER %q", c.VisionProvider))
	}

	switch c.Translator {
	case TranslatorNone:
	case TranslatorAWS:
		need(c.AWSRegion, "AWS_REGION")
	default:
		errs = append(errs, fmt.Errorf("unknown TRANSLATOR %q", c.Translator))
	}

	switch c.LogBackend {
	case BackendSheets:
		need(c.GCPCredentials, "GCP_CREDENTIALS_JSON")
		if c.SpreadsheetID == "" {
			need(c.SpreadsheetName, "SPREADSHEET_NAME")
		}
		need(c.SheetName, "SHEET_NAME")
	case BackendPostgres:
		need(c.DBHost, "DB_HOST")
		need(c.DBUser, "DB_USER")
		need(c.DBName, "DB_NAME")
	case BackendSQLite:
		need(c.SQLitePath, "SQLITE_PATH")
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_BACKEND %q", c.LogBackend))
	}

	switch c.SessionBackend {
	case SessionMemory:
	case SessionDynamo:
		need(c.SessionTable, "SESSION_TABLE")
		need(c.AWSRegion, "AWS_REGION")
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}

	if c.S3Bucket != "" || c.SNSTopicArn != "" {
		need(c.AWSRegion, "AWS_REGION")
	}

	return errors.Join(errs...)
}

// UsesAWS reports whether any configured component talks to AWS.
func (c *Config) UsesAWS() bool {
	return c.VisionProvider == ProviderRekognition ||
		c.Translator == TranslatorAWS ||
		c.SessionBackend == SessionDynamo ||
		c.S3Bucket != "" || c.SNSTopicArn != ""
}

// OpenDB opens the SQL log database for the postgres and sqlite backends.
func OpenDB(c *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch c.LogBackend {
	case BackendPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
		dialector = postgres.Open(dsn)
	case BackendSQLite:
		dialector = sqlite.Open(c.SQLitePath)
	default:
		return nil, fmt.Errorf("log backend %q is not a SQL backend", c.LogBackend)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
