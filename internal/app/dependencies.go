package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/finboard/finboard/internal/amqp"
	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/database"
	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	"github.com/finboard/finboard/pkg/auth"
	"github.com/finboard/finboard/pkg/autopayment"
	"github.com/finboard/finboard/pkg/budget"
	"github.com/finboard/finboard/pkg/cashflow"
	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/project"
	"github.com/finboard/finboard/pkg/receipt"
	"github.com/finboard/finboard/pkg/report"
	"github.com/finboard/finboard/pkg/session"
	"github.com/finboard/finboard/pkg/sheets"
	"github.com/finboard/finboard/pkg/snapshot"
	"github.com/finboard/finboard/pkg/transfer"
	"github.com/finboard/finboard/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Config config.Application
	DB     *database.DB
	Bus    *event_bus.EventBus

	TokenStore session.TokenStore
	Client     *api.ClientImpl

	AuthService auth.Service
	AuthHandler *auth.Handler

	WalletService wallet.Service
	WalletHandler *wallet.Handler

	CashflowService cashflow.Service
	CashflowHandler *cashflow.Handler

	ReceiptService receipt.Service
	ReceiptHandler *receipt.Handler

	ExpenditureService expenditure.Service
	ExpenditureHandler *expenditure.Handler

	TransferService transfer.Service
	TransferHandler *transfer.Handler

	BudgetService budget.BudgetService
	BudgetHandler *budget.BudgetHandler

	AutoPaymentService autopayment.Service
	AutoPaymentHandler *autopayment.Handler

	ProjectService project.Service
	ProjectHandler *project.Handler

	ReportService     report.ReportService
	CsvReportRenderer *report.CsvReportRendererImpl
	ReportHandler     *report.ReportHandler

	SnapshotRepo    snapshot.Repository
	SnapshotService *snapshot.ServiceImpl
	SnapshotHandler *snapshot.Handler

	AMQPPublisher *amqp.Publisher

	closers []func() error
}

// Build opens the local store, applies migrations and wires every service against the remote API.
func Build(cfg config.Application) (*Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	deps := BuildDependencies(db, cfg)
	deps.closers = append(deps.closers, db.Close)

	if cfg.AMQP.Enabled {
		publisher, err := amqp.Dial(cfg.AMQP)
		if err != nil {
			log.Warnf("AMQP forwarding disabled: %v", err)
		} else {
			deps.AMQPPublisher = publisher
			unsubscribe := publisher.Subscribe(deps.Bus)
			deps.closers = append(deps.closers, func() error {
				unsubscribe()
				return publisher.Close()
			})
		}
	}

	return deps, nil
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *database.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{Config: cfg, DB: db}

	deps.Bus = event_bus.NewEventBus()

	deps.TokenStore = session.ContextStore{Fallback: session.NewRepository(db, session.DefaultProfile)}
	deps.Client = api.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, deps.TokenStore)

	authService := auth.NewService(deps.Client, deps.TokenStore)
	deps.Client.SetRefresher(authService)
	deps.AuthService = authService
	deps.AuthHandler = auth.NewHandler(deps.AuthService)

	deps.WalletService = wallet.NewService(deps.Client, deps.Bus)
	deps.WalletHandler = wallet.NewHandler(deps.WalletService)

	deps.CashflowService = cashflow.NewService(deps.Client, deps.Bus)
	deps.CashflowHandler = cashflow.NewHandler(deps.CashflowService)

	deps.ReceiptService = receipt.NewService(deps.Client, deps.Bus)
	deps.ReceiptHandler = receipt.NewHandler(deps.ReceiptService)

	deps.ExpenditureService = expenditure.NewService(deps.Client, deps.Bus)
	deps.ExpenditureHandler = expenditure.NewHandler(deps.ExpenditureService)

	deps.TransferService = transfer.NewService(deps.Client, deps.Bus)
	deps.TransferHandler = transfer.NewHandler(deps.TransferService)

	deps.BudgetService = budget.NewBudgetServiceImpl(deps.Client, deps.Bus)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.AutoPaymentService = autopayment.NewService(deps.Client, deps.Bus)
	deps.AutoPaymentHandler = autopayment.NewHandler(deps.AutoPaymentService)

	deps.ProjectService = project.NewService(deps.Client, deps.Bus)
	deps.ProjectHandler = project.NewHandler(deps.ProjectService)

	deps.ReportService = report.NewReportServiceImpl(
		deps.BudgetService,
		deps.ReceiptService,
		deps.ExpenditureService,
		deps.CashflowService,
		deps.WalletService,
		deps.Bus,
		cfg.Reports.Concurrency,
	)
	deps.CsvReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewReportHandler(deps.ReportService, deps.CsvReportRenderer)

	deps.SnapshotRepo = snapshot.NewRepository(db)
	deps.SnapshotService = snapshot.NewService(deps.SnapshotRepo)
	deps.SnapshotService.Subscribe(deps.Bus)
	deps.SnapshotHandler = snapshot.NewHandler(deps.SnapshotService)

	return deps
}

// SheetsPublisher is created on demand because it authenticates against Google.
func (d *Dependencies) SheetsPublisher(ctx context.Context) (*sheets.Publisher, error) {
	if !d.Config.Sheets.Enabled {
		return nil, errors.New("sheets publishing is disabled, set sheets.enabled")
	}
	return sheets.NewPublisher(ctx, d.Config.Sheets)
}

// Close releases resources in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
