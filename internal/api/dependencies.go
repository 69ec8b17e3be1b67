package api

import (
	"github.com/redis/go-redis/v9"

	"npu-collective/sabha/internal/common"
	"npu-collective/sabha/internal/db"
	"npu-collective/sabha/internal/db/repositories"
	"npu-collective/sabha/internal/services"
)

type Repositories struct {
	User       *repositories.UserRepository
	UserGorm   *repositories.UserRepositoryGORM
	Audit      *repositories.AuditRepository
	FinSummary *repositories.FinanceSummaryRepository
}

type Services struct {
	Cache      common.CacheInterface
	Sessions   *common.SessionService
	OTP        *common.OTPService
	Audit      *services.AuditService
	Ledger     *services.LedgerService
	Workflow   *services.WorkflowService
	UserMgmt   *services.UserMgmtService
	Networking *services.NetworkingService
	Export     *services.ExportService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Redis    *redis.Client
}

func InitDependencies() (*Dependencies, error) {
	repos := &Repositories{
		User:       repositories.NewUserRepository(db.DB),
		UserGorm:   repositories.NewUserRepositoryGORM(db.PgDB),
		Audit:      repositories.NewAuditRepository(db.DB),
		FinSummary: repositories.NewFinanceSummaryRepository(db.DB),
	}

	redisClient := common.NewRedisClient()
	cacheSvc := common.NewCacheService(60, 600)
	auditSvc := services.NewAuditService()

	svcs := &Services{
		Cache:      cacheSvc,
		Sessions:   common.NewSessionService(redisClient),
		OTP:        common.NewOTPService(redisClient),
		Audit:      auditSvc,
		Ledger:     services.NewLedgerService(db.PgDB, auditSvc),
		Workflow:   services.NewWorkflowService(db.PgDB, auditSvc),
		UserMgmt:   services.NewUserMgmtService(db.PgDB, auditSvc),
		Networking: services.NewNetworkingService(db.PgDB),
		Export:     services.NewExportService(),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Redis:    redisClient,
	}, nil
}
