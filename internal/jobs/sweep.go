package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/KurirHub/courier_management_app/internal/core/domain"
	portsrepo "github.com/KurirHub/courier_management_app/internal/core/ports/repositories"
	portssvc "github.com/KurirHub/courier_management_app/internal/core/ports/services"
)

// SweepHandler closes out a calendar day: couriers who never checked in are
// marked absent, and sessions left unfinalized are reported for follow-up.
type SweepHandler struct {
	attendanceSvc portssvc.AttendanceWriterSvc
	sessionRepo   portsrepo.SessionReader
	logger        *slog.Logger
}

func NewSweepHandler(attendanceSvc portssvc.AttendanceWriterSvc, sessionRepo portsrepo.SessionReader, logger *slog.Logger) *SweepHandler {
	return &SweepHandler{
		attendanceSvc: attendanceSvc,
		sessionRepo:   sessionRepo,
		logger:        logger,
	}
}

func (h *SweepHandler) HandleNightlySweep(ctx context.Context, t *asynq.Task) error {
	var payload SweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("Failed to decode sweep payload", slog.String("error", err.Error()))
		return err
	}

	day := payload.Day
	if day == "" {
		day = domain.DayOf(time.Now())
	}

	marked, err := h.attendanceSvc.MarkAbsentees(ctx, day)
	if err != nil {
		h.logger.Error("Failed to mark absentees", slog.String("day", day), slog.String("error", err.Error()))
		return err
	}
	h.logger.Info("Nightly sweep marked absentees", slog.String("day", day), slog.Int("count", marked))

	unfinalized, err := h.sessionRepo.ListUnfinalizedSessions(ctx, day)
	if err != nil {
		h.logger.Error("Failed to list unfinalized sessions", slog.String("day", day), slog.String("error", err.Error()))
		return err
	}
	for i := range unfinalized {
		h.logger.Warn("Session left unfinalized after sweep",
			slog.String("day", day),
			slog.String("courier_id", unfinalized[i].CourierID),
			slog.String("session_id", unfinalized[i].SessionID),
			slog.Bool("manifest_submitted", unfinalized[i].Manifest.Submitted),
		)
	}
	return nil
}
