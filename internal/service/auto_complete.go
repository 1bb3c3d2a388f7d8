package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/prestaci/prestaci-backend/internal/model"
	"github.com/prestaci/prestaci-backend/internal/queue"
	"github.com/prestaci/prestaci-backend/internal/repository"
)

// AutoCompleter is the system path of the "mark terminated" action: a
// periodic sweep that moves confirmed reservations whose end time has
// passed into terminee.  It goes through the same guarded UPDATE as the
// manual path, so a reservation cancelled between the listing and the
// update is simply skipped.
type AutoCompleter struct {
	Reservations *repository.ReservationRepo
	cron         *cron.Cron
}

// NewAutoCompleter builds the sweep around the reservation repository.
func NewAutoCompleter(r *repository.ReservationRepo) *AutoCompleter {
	if r == nil {
		panic("nil repository passed to NewAutoCompleter")
	}
	return &AutoCompleter{Reservations: r}
}

// Start schedules the sweep.  spec is a standard cron expression; an empty
// value falls back to every 15 minutes.
func (a *AutoCompleter) Start(spec string) error {
	if spec == "" {
		spec = "*/15 * * * *"
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { a.RunOnce(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	a.cron = c
	log.Printf("auto-complete: scheduled with %q", spec)
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (a *AutoCompleter) Stop() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
}

// RunOnce performs a single sweep and reports how many reservations were
// completed.  Per-row failures are logged and skipped; the sweep picks the
// row up again on the next run if it is still eligible.
func (a *AutoCompleter) RunOnce(ctx context.Context) int {
	ids, err := a.Reservations.ListOverdueConfirmed(ctx, time.Now())
	if err != nil {
		log.Printf("auto-complete: listing overdue reservations failed: %v", err)
		return 0
	}
	done := 0
	for _, id := range ids {
		if _, err := a.Reservations.UpdateStatus(ctx, id, model.StatusTerminee); err != nil {
			// Raced with a cancel or refuse; nothing to do for this row.
			if err == repository.ErrInvalidTransition || err == repository.ErrReservationNotFound {
				continue
			}
			log.Printf("auto-complete: reservation %d: %v", id, err)
			continue
		}
		done++
		if info, err := a.Reservations.GetStatusEventInfo(ctx, id); err == nil {
			_ = PublishStatusChanged(ctx, StatusEvent(info, model.StatusConfirmee, info.ClientUserID))
		}
	}
	if done > 0 {
		log.Printf("auto-complete: marked %d reservation(s) terminee", done)
	}
	return done
}

// StatusEvent builds the broker payload from reservation event info.  The
// handlers share it so every publish site shapes events the same way.
func StatusEvent(info *repository.StatusEventInfo, oldStatus string, recipientUserID uint64) queue.ReservationStatusChangedEvent {
	return queue.ReservationStatusChangedEvent{
		ReservationID:   info.ReservationID,
		Reference:       info.Reference,
		OldStatus:       oldStatus,
		NewStatus:       info.Statut,
		ServiceNom:      info.ServiceNom,
		DateReservation: info.DateReservation,
		HeureDebut:      info.HeureDebut,
		RecipientUserID: recipientUserID,
		ChangedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}
