package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend/auth"
	"github.com/jo-hoe/hoasite/internal/backend/database"
	"github.com/jo-hoe/hoasite/internal/backend/finance"
)

// AnnouncementLimit caps the announcements shown on the home page.
const AnnouncementLimit = 20

var ErrInvalidMove = errors.New("invalid move direction")

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	sessions        auth.SessionStore
	authenticator   *auth.Authenticator
}

// NewCoreService opens the database and the session store, creates the
// bootstrap admin and imports the configured finance files.
func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(ctx, config)
	if err != nil {
		return nil, err
	}
	sessions, err := getSessionStore(ctx, config)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}
	authenticator, err := auth.NewAuthenticator(databaseService, sessions, config.Session.TTL)
	if err != nil {
		_ = sessions.Close()
		_ = databaseService.Close()
		return nil, err
	}

	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		sessions:        sessions,
		authenticator:   authenticator,
	}
	if err := service.bootstrapAdmin(ctx); err != nil {
		_ = service.Close()
		return nil, err
	}
	if err := service.importConfiguredFinance(ctx); err != nil {
		_ = service.Close()
		return nil, err
	}
	return service, nil
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func getSessionStore(ctx context.Context, config *ServiceConfig) (auth.SessionStore, error) {
	switch config.Session.Store {
	case "redis":
		store, err := auth.NewRedisStore(ctx, config.Session.RedisAddr, config.Session.RedisPassword, config.Session.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis session store: %w", err)
		}
		slog.Info("session store initialized", "store", "redis", "addr", config.Session.RedisAddr)
		return store, nil
	case "memory", "":
		slog.Info("session store initialized", "store", "memory")
		return auth.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", config.Session.Store)
	}
}

func (service *CoreService) bootstrapAdmin(ctx context.Context) error {
	if service.config.Admin.Username == "" {
		return nil
	}
	count, err := service.databaseService.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	user, err := service.AddUser(ctx, service.config.Admin.Username, service.config.Admin.Password, auth.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	slog.Info("bootstrap admin created", "username", user.Username)
	return nil
}

func (service *CoreService) importConfiguredFinance(ctx context.Context) error {
	checking, savings := service.config.Finance.CheckingCSV, service.config.Finance.SavingsCSV
	if checking == "" {
		return nil
	}
	txCount, savingsCount, err := service.ImportFinanceFiles(ctx, checking, savings)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("finance files not found, dashboard keeps previous data", "checking", checking, "savings", savings)
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("finance data imported", "transactions", txCount, "savings", savingsCount)
	return nil
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

func (service *CoreService) Close() error {
	return errors.Join(service.sessions.Close(), service.databaseService.Close())
}

// Ping is used by the probe.
func (service *CoreService) Ping() bool {
	return service.databaseService.DoesDatabaseExist()
}

// Accounts

func (service *CoreService) Login(ctx context.Context, username, password string) (string, *auth.Session, error) {
	return service.authenticator.Login(ctx, username, password)
}

func (service *CoreService) Logout(ctx context.Context, sessionID string) error {
	return service.authenticator.Logout(ctx, sessionID)
}

func (service *CoreService) Session(ctx context.Context, sessionID string) (*auth.Session, error) {
	return service.authenticator.Session(ctx, sessionID)
}

func (service *CoreService) SessionTTL() time.Duration {
	return service.authenticator.TTL()
}

func (service *CoreService) AddUser(ctx context.Context, username, password string, role auth.Role) (*database.User, error) {
	if _, err := auth.ParseRole(string(role)); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return service.databaseService.CreateUser(ctx, username, hash, string(role))
}

func (service *CoreService) ListUsers(ctx context.Context) ([]*database.User, error) {
	return service.databaseService.ListUsers(ctx)
}

func (service *CoreService) SetPassword(ctx context.Context, username, password string) error {
	user, err := service.databaseService.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return service.databaseService.UpdatePassword(ctx, user.ID, hash)
}

func (service *CoreService) SetRole(ctx context.Context, username string, role auth.Role) error {
	if _, err := auth.ParseRole(string(role)); err != nil {
		return err
	}
	user, err := service.databaseService.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return service.databaseService.UpdateRole(ctx, user.ID, string(role))
}

func (service *CoreService) DeleteUser(ctx context.Context, username string) error {
	user, err := service.databaseService.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return service.databaseService.DeleteUser(ctx, user.ID)
}

// Announcements

func (service *CoreService) AddAnnouncement(ctx context.Context, title, body, authorID string) (*database.Announcement, error) {
	return service.databaseService.CreateAnnouncement(ctx, title, body, authorID)
}

func (service *CoreService) ListAnnouncements(ctx context.Context) ([]*database.Announcement, error) {
	return service.databaseService.ListAnnouncements(ctx, AnnouncementLimit)
}

func (service *CoreService) DeleteAnnouncement(ctx context.Context, id string) error {
	return service.databaseService.DeleteAnnouncement(ctx, id)
}

// MoveAnnouncement swaps the announcement with its neighbour above ("up") or
// below ("down"). Moving past either end is a no-op.
func (service *CoreService) MoveAnnouncement(ctx context.Context, id, dir string) error {
	if dir != "up" && dir != "down" {
		return ErrInvalidMove
	}
	// Get current order from DB
	order, err := service.databaseService.GetOrderedAnnouncementIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}

	idx := -1
	for i := range order {
		if order[i] == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("announcement %s: %w", id, database.ErrNotFound)
	}

	switch dir {
	case "up":
		if idx == 0 {
			return nil
		}
		order[idx], order[idx-1] = order[idx-1], order[idx]
	case "down":
		if idx == len(order)-1 {
			return nil
		}
		order[idx], order[idx+1] = order[idx+1], order[idx]
	}
	return service.databaseService.UpdateAnnouncementOrder(ctx, order)
}

// Finance

// ImportFinanceFiles replaces the stored finance data with the CSV files.
// The savings file is optional.
func (service *CoreService) ImportFinanceFiles(ctx context.Context, checkingPath, savingsPath string) (int, int, error) {
	checking, err := os.Open(checkingPath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open checking file: %w", err)
	}
	defer func() {
		if cerr := checking.Close(); cerr != nil {
			slog.Error("failed to close checking file", "error", cerr, "path", checkingPath)
		}
	}()

	var savings io.Reader
	if savingsPath != "" {
		f, err := os.Open(savingsPath)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to open savings file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				slog.Error("failed to close savings file", "error", cerr, "path", savingsPath)
			}
		}()
		savings = f
	}
	return service.ImportFinance(ctx, checking, savings)
}

// ImportFinance parses both exports before touching the database so a bad
// file leaves the previous data in place. A nil savings reader keeps the
// stored savings history.
func (service *CoreService) ImportFinance(ctx context.Context, checking, savings io.Reader) (int, int, error) {
	txs, err := finance.ReadChecking(checking)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read checking export: %w", err)
	}
	var points []finance.SavingsPoint
	if savings != nil {
		points, err = finance.ReadSavings(savings)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read savings export: %w", err)
		}
	}

	if err := service.databaseService.ReplaceTransactions(ctx, txs); err != nil {
		return 0, 0, fmt.Errorf("failed to store transactions: %w", err)
	}
	if savings != nil {
		if err := service.databaseService.ReplaceSavings(ctx, points); err != nil {
			return len(txs), 0, fmt.Errorf("failed to store savings: %w", err)
		}
	}
	return len(txs), len(points), nil
}

// FilterOptions are the choices the dashboard offers, taken from all data.
type FilterOptions struct {
	Categories []string
	Vendors    []string
	First      time.Time
	Last       time.Time
	HasData    bool
}

func (service *CoreService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	txs, err := service.databaseService.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	first, last, ok := finance.DateBounds(txs)
	return &FilterOptions{
		Categories: finance.Categories(txs),
		Vendors:    finance.Vendors(txs),
		First:      first,
		Last:       last,
		HasData:    ok,
	}, nil
}

// Report builds the dashboard for the filter.
func (service *CoreService) Report(ctx context.Context, filter finance.Filter) (*finance.Report, error) {
	txs, err := service.databaseService.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	savings, err := service.databaseService.ListSavings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings: %w", err)
	}
	return finance.BuildReport(txs, savings, filter)
}

// ExportCSV writes the filtered transactions.
func (service *CoreService) ExportCSV(ctx context.Context, w io.Writer, filter finance.Filter) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	txs, err := service.databaseService.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}
	return finance.WriteCSV(w, filter.Apply(txs))
}
