// cmd/regdesk/main.go
//
// Single entry point for the registration back-office. One positional
// command selects the pass to run; everything else comes from
// configuration.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/sevakendra/regdesk/internal/app/bootstrap"
	"github.com/sevakendra/regdesk/internal/app/pipeline/cleanup"
	"github.com/sevakendra/regdesk/internal/app/pipeline/dedupe"
	"github.com/sevakendra/regdesk/internal/app/pipeline/importer"
	"github.com/sevakendra/regdesk/internal/app/pipeline/migrate"
	"github.com/sevakendra/regdesk/internal/app/pipeline/reconcile"
	"github.com/sevakendra/regdesk/internal/app/store/emailindex"
	"github.com/sevakendra/regdesk/internal/app/store/registrations"
	userstore "github.com/sevakendra/regdesk/internal/app/store/users"
	"github.com/sevakendra/regdesk/internal/app/system/batch"
	"github.com/sevakendra/regdesk/internal/app/system/fieldmap"
	"github.com/sevakendra/regdesk/internal/app/system/identity"
	"github.com/sevakendra/regdesk/internal/app/system/status"
)

const usage = `usage: regdesk <command> [args]

Import and reconciliation:
  import                       import the configured spreadsheet and rebuild the email index
  rebuild-email-index          rebuild the email index from the registrations collection
  sync-users                   recompute associated registrations on user accounts

Field maintenance:
  normalize                    migrate legacy field names onto canonical ones
  cleanup                      remove legacy fields duplicating canonical ones
  remove-fields <field>...     remove the named fields from every registration
  find-negative-phones         report phone values that parse below zero

Value normalization:
  normalize-zones              canonicalize the zone field
  normalize-dates              canonicalize arrival/departure dates
  normalize-pickup-locations   canonicalize arrival/departure places
  normalize-post-tour          canonicalize the post-tour choice
  normalize-all                run the four passes above in sequence

Status updates:
  approve-status <id>...       set status Approved on the listed registrations
  reject-status <id>...        set status Rejected on the listed registrations
  cancel-status <id>...        set status Cancelled on the listed registrations

Duplicates and migration:
  find-duplicates              report name+email and ID-suffix duplicate clusters
  find-duplicates-name-email   report name+email duplicate clusters
  find-duplicates-last4        report ID-suffix duplicate clusters
  migrate-non-shibirarthi      move staff-category registrations to the staff collection
  migrate-cancelled            move cancelled/rejected registrations to the graveyard

Server:
  serve                        host the account and contact HTTP adapters
`

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// env bundles everything a command can need. Stores are cheap wrappers;
// building them all up front keeps the dispatch table flat.
type env struct {
	cfg    bootstrap.AppConfig
	deps   bootstrap.Deps
	log    *zap.Logger
	runner *batch.Runner

	regs  *registrations.Store
	index *emailindex.Store
	users *userstore.Store

	passes     *cleanup.Passes
	reconciler *reconcile.Reconciler
	migrator   *migrate.Migrator
}

func run(logger *zap.Logger) error {
	args := os.Args[1:]
	command := "help"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	if command == "help" {
		fmt.Print(usage)
		return nil
	}

	_, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(appCfg, logger); err != nil {
		return err
	}

	ctx := context.Background()
	deps, err := bootstrap.Connect(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bootstrap.Shutdown(context.Background(), deps, logger) }()

	if err := bootstrap.EnsureSchema(ctx, deps, logger); err != nil {
		return err
	}

	runner := batch.New(logger)
	regs := registrations.New(deps.Store)
	index := emailindex.New(deps.Store)
	users := userstore.New(deps.Store)
	reconciler := reconcile.New(regs, index, users, runner, logger)

	e := &env{
		cfg:        appCfg,
		deps:       deps,
		log:        logger,
		runner:     runner,
		regs:       regs,
		index:      index,
		users:      users,
		passes:     cleanup.New(regs, fieldmap.New(fieldmap.DefaultLegacy, logger), runner, logger),
		reconciler: reconciler,
		migrator:   migrate.New(deps.Store, regs, runner, logger),
	}

	switch command {
	case "import":
		return runImport(ctx, e)
	case "rebuild-email-index":
		_, err := e.reconciler.RebuildEmailIndex(ctx)
		return err
	case "sync-users":
		_, err := e.reconciler.SyncUsers(ctx)
		return err

	case "normalize":
		_, err := e.passes.CanonicalizeFields(ctx)
		return err
	case "cleanup":
		_, err := e.passes.RemoveLegacyDuplicates(ctx)
		return err
	case "remove-fields":
		_, err := e.passes.RemoveFields(ctx, args)
		return err
	case "find-negative-phones":
		return runNegativePhones(ctx, e)

	case "normalize-zones":
		_, err := e.passes.NormalizeZones(ctx)
		return err
	case "normalize-dates":
		_, failures, err := e.passes.NormalizeDates(ctx)
		printDateFailures(failures)
		return err
	case "normalize-pickup-locations":
		_, err := e.passes.NormalizePickupLocations(ctx)
		return err
	case "normalize-post-tour":
		_, err := e.passes.NormalizePostTours(ctx)
		return err
	case "normalize-all":
		failures, err := e.passes.NormalizeAll(ctx)
		printDateFailures(failures)
		return err

	case "approve-status":
		return runStatus(ctx, e, args, status.Approved)
	case "reject-status":
		return runStatus(ctx, e, args, status.Rejected)
	case "cancel-status":
		return runStatus(ctx, e, args, status.Cancelled)

	case "find-duplicates":
		return runDuplicates(ctx, e, true, true)
	case "find-duplicates-name-email":
		return runDuplicates(ctx, e, true, false)
	case "find-duplicates-last4":
		return runDuplicates(ctx, e, false, true)

	case "migrate-non-shibirarthi":
		_, err := e.migrator.Run(ctx, migrate.NonParticipant, migrate.StaffCollection)
		return err
	case "migrate-cancelled":
		_, err := e.migrator.Run(ctx, migrate.Terminated, migrate.CancelledCollection)
		return err

	case "serve":
		return runServe(ctx, e)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runImport(ctx context.Context, e *env) error {
	rows, err := importer.ReadXLSX(e.cfg.XLSXPath)
	if err != nil {
		return err
	}
	imp := importer.New(e.regs, e.index, e.reconciler, e.log)
	res, err := imp.Run(ctx, rows)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d rows (%d errors, %d distinct emails)\n",
		res.Imported, res.Errors, res.Emails)
	return nil
}

func runNegativePhones(ctx context.Context, e *env) error {
	hits, err := e.passes.FindNegativePhones(ctx)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		fmt.Printf("%s\t%s\t%v\n", hit.UniqueID, hit.Field, hit.Value)
	}
	fmt.Printf("%d negative phone values\n", len(hits))
	return nil
}

func runStatus(ctx context.Context, e *env, ids []string, st string) error {
	if len(ids) == 0 {
		return fmt.Errorf("no registration identifiers given")
	}
	tally := e.passes.SetStatus(ctx, ids, st)
	fmt.Printf("updated %d, not found %d, failed %d\n",
		tally.Updated, tally.NotFound, tally.Failed)
	return nil
}

func runDuplicates(ctx context.Context, e *env, nameEmail, last4 bool) error {
	all, err := e.runner.ScanAll(ctx, e.regs.Collection())
	if err != nil {
		return err
	}
	if nameEmail {
		printClusters("name+email", dedupe.ByNameEmail(all))
	}
	if last4 {
		printClusters("id-suffix", dedupe.ByLast4(all))
	}
	return nil
}

func printClusters(kind string, clusters []dedupe.Cluster) {
	fmt.Printf("%s duplicate clusters: %d\n", kind, len(clusters))
	for _, c := range clusters {
		fmt.Printf("  %s\n", c.Key)
		for _, m := range c.Members {
			fmt.Printf("    %s\t%s\t%s\n", m.UniqueID, m.Name, m.Email)
		}
	}
}

func printDateFailures(failures []cleanup.DateFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Printf("%d dates need manual follow-up:\n", len(failures))
	for _, f := range failures {
		fmt.Printf("  %s\t%s\t%q\n", f.UniqueID, f.Field, f.Value)
	}
}

func runServe(ctx context.Context, e *env) error {
	idp, err := identity.NewFirebase(ctx, e.cfg.CredentialsFile)
	if err != nil {
		return err
	}
	handler, err := bootstrap.BuildHandler(e.cfg, e.deps, idp, e.log)
	if err != nil {
		return err
	}
	e.log.Info("listening", zap.String("addr", e.cfg.HTTPAddr))
	return http.ListenAndServe(e.cfg.HTTPAddr, handler)
}
