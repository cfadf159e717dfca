package services

import (
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
	"github.com/KurirHub/courier_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache may be nil when no Redis instance is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache StatsCache) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Courier = NewCourierService(repos.CourierRepo)

	// Attendance comes first among the delivery services; the session service
	// gates every mutation on it.
	container.Attendance = NewAttendanceService(repos.AttendanceRepo, repos.CourierRepo)
	container.Stats = NewStatsService(repos.SummaryRepo, cache)
	container.Session = NewSessionService(repos.SessionRepo, container.Attendance, container.Stats)

	container.Approval = NewApprovalService(repos.RequestRepo, repos.CourierRepo, repos.UserRepo, container.User)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
