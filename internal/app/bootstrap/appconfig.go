// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for regdesk.
//
// Values come from environment variables (REGDESK_*), configuration
// files, or command-line flags, loaded in LoadConfig. Extend this struct
// as the tool grows; every command receives it.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Import configuration
	XLSXPath string // Spreadsheet the import command reads

	// Identity provider configuration
	CredentialsFile string // Service-account key for the identity admin SDK

	// Email/SMTP configuration for the contact relay
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	ContactTo    string // Inbox the contact relay delivers to

	// HTTP adapter configuration
	AdminJWTSecret string // Shared secret for the account endpoints; empty disables the check
	HTTPAddr       string // Listen address for the serve command
}
