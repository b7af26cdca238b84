// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for regdesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, xlsx_path, etc.
//   - Environment variables: REGDESK_MONGO_URI, REGDESK_XLSX_PATH, etc.
//   - Command-line flags: --mongo_uri, --xlsx_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "regdesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "xlsx_path", Default: "./data/registrations.xlsx", Desc: "Registration spreadsheet for the import command"},

	{Name: "credentials_file", Default: "", Desc: "Identity provider service-account key file (default ./serviceAccountKey.json)"},

	// Contact relay SMTP
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (empty disables the contact relay)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "", Desc: "From email address"},
	{Name: "contact_to", Default: "", Desc: "Inbox the contact relay delivers to"},

	// HTTP adapters
	{Name: "admin_jwt_secret", Default: "", Desc: "Shared secret for account endpoint bearer tokens (empty disables the check)"},
	{Name: "http_addr", Default: ":8080", Desc: "Listen address for the serve command"},
}

// LoadConfig loads WAFFLE core config and app-specific config. It runs
// before any command so every command sees the same configuration
// surface.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "REGDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		XLSXPath:        appValues.String("xlsx_path"),
		CredentialsFile: appValues.String("credentials_file"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		ContactTo:    appValues.String("contact_to"),

		AdminJWTSecret: appValues.String("admin_jwt_secret"),
		HTTPAddr:       appValues.String("http_addr"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig enforces invariants that should abort startup, before
// any connection is attempted.
func ValidateConfig(appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	return nil
}
