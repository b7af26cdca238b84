// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/sevakendra/regdesk/internal/app/features/accounts"
	contactfeature "github.com/sevakendra/regdesk/internal/app/features/contact"
	healthfeature "github.com/sevakendra/regdesk/internal/app/features/health"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/app/system/identity"
	"github.com/sevakendra/regdesk/internal/app/system/mailer"
)

// BuildHandler constructs the HTTP surface the serve command exposes:
// the account provisioning endpoints and the contact relay. These run as
// serverless functions in production; serve hosts the same handlers for
// local and offline use.
func BuildHandler(appCfg AppConfig, deps Deps, idp identity.Admin, logger *zap.Logger) (http.Handler, error) {
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	})

	r := chi.NewRouter()

	// Health check for load balancers and uptime probes
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	accountsHandler := accountsfeature.NewHandler(
		idp,
		userstore.New(deps.Store),
		deps.Store.Collection(accountsfeature.AuditCollection),
		appCfg.AdminJWTSecret,
		logger)
	accountsfeature.MountRoutes(r, accountsHandler)

	contactHandler := contactfeature.NewHandler(sender, appCfg.ContactTo, logger)
	contactfeature.MountRoutes(r, contactHandler)

	return r, nil
}
