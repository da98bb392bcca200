package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Email     EmailConfig
	Sheets    SheetsConfig
	Zalo      ZaloConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Admin     AdminConfig
	Maps      MapsConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	OutboundTimeout time.Duration
	CORSOrigins     []string
	TrustedProxies  []string // IPs or CIDRs whose forwarding headers are believed
}

// EmailConfig drives both booking confirmations and operator alerts.
// An incomplete config disables email instead of failing requests.
type EmailConfig struct {
	Provider       string // smtp | sendgrid | ses
	Host           string
	Port           int
	User           string
	Password       string
	From           string
	FromName       string
	BusinessTo     []string
	SendGridAPIKey string
	SESRegion      string
	// PassSet and PasswordSet record which of EMAIL_PASS / EMAIL_PASSWORD was present.
	PassSet     bool
	PasswordSet bool
}

type SheetsConfig struct {
	WebAppURL       string
	DefaultTab      string
	SpreadsheetID   string
	CredentialsJSON string
}

type ZaloConfig struct {
	AccessToken        string
	RefreshToken       string
	AdminIDs           []string
	AppID              string
	AppSecret          string
	NotifyEmail        string
	TokenStore         string // file | redis | postgres | none, empty = auto
	CacheFile          string
	FileSystemWritable bool
	OAuthURL           string
	APIURL             string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type AdminConfig struct {
	KeyHash string
}

type MapsConfig struct {
	VietMapAPIKey string
	VietMapURL    string
	NominatimURL  string
	UserAgent     string
}

type RateLimitConfig struct {
	PerMinute int
}

// Configured reports whether the selected provider has enough settings to send mail.
func (c EmailConfig) Configured() bool {
	switch c.Provider {
	case "sendgrid":
		return c.SendGridAPIKey != "" && c.From != ""
	case "ses":
		return c.SESRegion != "" && c.From != ""
	default:
		return c.Host != "" && c.User != "" && c.Password != ""
	}
}

// Enabled reports whether the chat channel has something to authenticate with
// and someone to talk to.
func (c ZaloConfig) Enabled() bool {
	return (c.AccessToken != "" || c.RefreshToken != "") && len(c.AdminIDs) > 0
}

// SheetsAPIEnabled reports whether direct Sheets API writes are configured.
func (c SheetsConfig) SheetsAPIEnabled() bool {
	return c.SpreadsheetID != "" && c.CredentialsJSON != ""
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads an optional dotenv file, then the process environment.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "branch-locator")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("OUTBOUND_TIMEOUT", "15s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("EMAIL_PROVIDER", "smtp")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("GOOGLE_SHEETS_DEFAULT_TAB", "List 20_10")
	v.SetDefault("ZALO_TOKEN_CACHE_FILE", ".zalo-token-cache.json")
	v.SetDefault("ZALO_OAUTH_URL", "https://oauth.zalo.me")
	v.SetDefault("ZALO_API_URL", "https://openapi.zalo.me")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 5)
	v.SetDefault("VIETMAP_URL", "https://maps.vietmap.vn")
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("MAPS_USER_AGENT", "branch-locator/1.0")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	user := v.GetString("EMAIL_USER")
	pass := v.GetString("EMAIL_PASS")
	passwordAlt := v.GetString("EMAIL_PASSWORD")
	password := pass
	if password == "" {
		password = passwordAlt
	}
	from := v.GetString("EMAIL_FROM")
	if from == "" {
		from = user
	}
	businessTo := SplitList(v.GetString("BUSINESS_EMAIL_TO"))
	if len(businessTo) == 0 && user != "" {
		businessTo = []string{user}
	}

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			OutboundTimeout: v.GetDuration("OUTBOUND_TIMEOUT"),
			CORSOrigins:     SplitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies:  SplitList(v.GetString("TRUSTED_PROXIES")),
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(strings.TrimSpace(v.GetString("EMAIL_PROVIDER"))),
			Host:           v.GetString("EMAIL_HOST"),
			Port:           v.GetInt("EMAIL_PORT"),
			User:           user,
			Password:       password,
			From:           from,
			FromName:       v.GetString("EMAIL_FROM_NAME"),
			BusinessTo:     businessTo,
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			SESRegion:      v.GetString("AWS_REGION"),
			PassSet:        pass != "",
			PasswordSet:    passwordAlt != "",
		},
		Sheets: SheetsConfig{
			WebAppURL:       v.GetString("GOOGLE_SHEETS_WEB_APP_URL"),
			DefaultTab:      v.GetString("GOOGLE_SHEETS_DEFAULT_TAB"),
			SpreadsheetID:   v.GetString("GOOGLE_SHEETS_ID"),
			CredentialsJSON: v.GetString("GOOGLE_SHEETS_CREDENTIALS_JSON"),
		},
		Zalo: ZaloConfig{
			AccessToken:        v.GetString("ZALO_OA_ACCESS_TOKEN"),
			RefreshToken:       v.GetString("ZALO_OA_REFRESH_TOKEN"),
			AdminIDs:           SplitList(v.GetString("ZALO_OA_ADMIN_IDS")),
			AppID:              v.GetString("ZALO_APP_ID"),
			AppSecret:          v.GetString("ZALO_APP_SECRET"),
			NotifyEmail:        v.GetString("ZALO_TOKEN_NOTIFY_EMAIL"),
			TokenStore:         strings.ToLower(strings.TrimSpace(v.GetString("ZALO_TOKEN_STORE"))),
			CacheFile:          v.GetString("ZALO_TOKEN_CACHE_FILE"),
			FileSystemWritable: v.GetBool("FILE_SYSTEM_WRITABLE"),
			OAuthURL:           strings.TrimRight(v.GetString("ZALO_OAUTH_URL"), "/"),
			APIURL:             strings.TrimRight(v.GetString("ZALO_API_URL"), "/"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Admin: AdminConfig{
			KeyHash: v.GetString("ADMIN_KEY_HASH"),
		},
		Maps: MapsConfig{
			VietMapAPIKey: v.GetString("VIETMAP_API_KEY"),
			VietMapURL:    strings.TrimRight(v.GetString("VIETMAP_URL"), "/"),
			NominatimURL:  strings.TrimRight(v.GetString("NOMINATIM_URL"), "/"),
			UserAgent:     v.GetString("MAPS_USER_AGENT"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
	}

	return config, nil
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
