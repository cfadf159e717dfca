package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		CourierRepo:    newPgxCourierRepository(dbPool),
		AttendanceRepo: newPgxAttendanceRepository(dbPool),
		SessionRepo:    newPgxSessionRepository(dbPool),
		SummaryRepo:    newPgxSummaryRepository(dbPool),
		RequestRepo:    newPgxChangeRequestRepository(dbPool),
	}
}
