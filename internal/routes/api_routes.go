package routes

import (
	"github.com/go-chi/chi/v5"

	"npu-collective/sabha/internal/api"
	"npu-collective/sabha/internal/db"
	"npu-collective/sabha/internal/metrics"
	"npu-collective/sabha/internal/middleware"
)

// RegisterAPIRoutes wires every API surface. Nesting mirrors the role
// ladder: public, then authenticated, member, staff, admin.
func RegisterAPIRoutes(r chi.Router, metricsReg *metrics.MetricsRegistry, deps *api.Dependencies) {
	svcs := deps.Services

	// Public routes: landing content and login bootstrap.
	r.Group(func(public chi.Router) {
		public.Use(middleware.MetricsMiddleware(metricsReg))

		public.Get("/api/v1/public/sections", api.PublicSectionsHandler(svcs.Workflow, svcs.Cache))
		public.Get("/api/v1/public/posts", api.PublicPostsHandler(svcs.Workflow))

		public.Group(func(otp chi.Router) {
			otp.Use(middleware.OTPRateLimitMiddleware)
			otp.Post("/api/v1/auth/otp", api.IssueOTPHandler(svcs.OTP, deps.Repo.User))
			otp.Post("/api/v1/auth/verify", api.VerifyOTPHandler(
				svcs.OTP, svcs.Sessions, deps.Repo.UserGorm, deps.Repo.User, svcs.Audit, db.PgDB))
		})
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))
		v1.Use(middleware.AuthMiddleware(deps.Repo.User, deps.Repo.UserGorm, svcs.Sessions))

		v1.Get("/auth/me", api.MeHandler(svcs.UserMgmt))
		v1.Post("/auth/logout", api.LogoutHandler(svcs.Sessions))

		// Member tier: own ledger view, own profile, the directory.
		v1.Group(func(member chi.Router) {
			member.Use(middleware.IsMemberMiddleware())

			member.Get("/finance/my-dues", api.MyDuesHandler(svcs.Ledger))
			member.Get("/finance/records", api.ListFinanceRecordsHandler(svcs.Ledger))
			member.Get("/finance/records/{id}", api.GetFinanceRecordHandler(svcs.Ledger))

			member.Put("/profile", api.SubmitProfileHandler(svcs.Workflow))
			member.Get("/profile", api.GetOwnProfileHandler(svcs.Workflow))
			member.Get("/networking/directory", api.MemberDirectoryHandler(svcs.Networking))

			// Staff tier: ledger mutations, approvals, content, audit.
			member.Group(func(staff chi.Router) {
				staff.Use(middleware.IsStaffMiddleware())

				staff.Post("/finance/records", api.CreateFinanceRecordHandler(svcs.Ledger))
				staff.Patch("/finance/records/{id}", api.UpdateFinanceRecordHandler(svcs.Ledger))
				staff.Delete("/finance/records/{id}", api.DeleteFinanceRecordHandler(svcs.Ledger))
				staff.Post("/finance/records/{id}/status", api.TransitionPaymentStatusHandler(svcs.Ledger))
				staff.Get("/finance/overview", api.FinanceOverviewHandler(svcs.Ledger))
				staff.Get("/finance/summary/{year}/{month}", api.MonthlySummaryHandler(deps.Repo.FinSummary))
				staff.Get("/finance/export", api.ExportFinanceCSVHandler(svcs.Ledger, svcs.Export))

				staff.Get("/profiles/pending", api.ListPendingProfilesHandler(svcs.Workflow))
				staff.Post("/profiles/{id}/approve", api.ApproveProfileHandler(svcs.Workflow))
				staff.Post("/profiles/{id}/reject", api.RejectProfileHandler(svcs.Workflow))

				staff.Put("/content/sections", api.UpsertSectionHandler(svcs.Workflow, svcs.Cache))
				staff.Post("/content/sections/{id}/publish", api.PublishSectionHandler(svcs.Workflow, svcs.Cache))
				staff.Get("/content/sections", api.ListSectionsHandler(svcs.Workflow))
				staff.Post("/content/posts", api.CreatePostHandler(svcs.Workflow))
				staff.Patch("/content/posts/{id}", api.UpdatePostHandler(svcs.Workflow))
				staff.Post("/content/posts/{id}/schedule", api.SchedulePostHandler(svcs.Workflow))
				staff.Post("/content/posts/{id}/publish", api.PublishPostHandler(svcs.Workflow))
				staff.Get("/content/posts", api.ListPostsHandler(svcs.Workflow))

				staff.Get("/audit", api.ListAuditEntriesHandler(deps.Repo.Audit))

				staff.Get("/users", api.ListUsersHandler(svcs.UserMgmt))
				staff.Get("/users/{id}", api.GetUserHandler(svcs.UserMgmt))
				staff.Put("/users/{id}/role", api.UpdateUserRoleHandler(svcs.UserMgmt))
				staff.Put("/users/{id}/status", api.UpdateUserStatusHandler(svcs.UserMgmt))
				staff.Post("/users/{id}/suspend", api.SuspendUserHandler(svcs.UserMgmt))

				// Admin tier: account provisioning.
				staff.Group(func(admin chi.Router) {
					admin.Use(middleware.IsAdminMiddleware())

					admin.Post("/users", api.CreateUserHandler(svcs.UserMgmt))
				})
			})
		})
	})
}
