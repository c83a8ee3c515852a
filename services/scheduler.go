// services/scheduler.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/guessworks/hangbot_api/model"
	log "github.com/sirupsen/logrus"
)

// WeeklyResetService sweeps player records past the Monday boundary. The
// ledger already resets lazily on every touch; this sweep catches players
// who stopped playing, so leaderboards and balances go stale for at most
// an hour after the boundary.
type WeeklyResetService struct {
	context.DefaultService

	storageSvc *StorageService
	ledgerSvc  *LedgerService

	backend Backend
	now     func() time.Time
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc WeeklyResetService) Id() string {
	return SCHEDULER_SVC
}

func (svc *WeeklyResetService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.backend = svc.storageSvc.Backend()
	if svc.now == nil {
		svc.now = time.Now
	}

	go svc.startResetScheduler()

	return nil
}

func (svc *WeeklyResetService) startResetScheduler() {
	// Catch up immediately in case the process was down over a boundary.
	if _, err := svc.CheckAndReset(); err != nil {
		log.WithError(err).Error("Startup weekly reset sweep failed")
	}

	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		if _, err := svc.CheckAndReset(); err != nil {
			log.WithError(err).Error("Weekly reset sweep failed")
		}
	}
}

// weekBoundary returns the most recent Monday midnight, local time, at or
// before t.
func weekBoundary(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	daysSinceMonday := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -daysSinceMonday)
}

// NeedsReset reports whether a record last reset at the given time is due.
func (svc *WeeklyResetService) NeedsReset(lastReset time.Time) bool {
	return lastReset.Before(weekBoundary(svc.now()))
}

// NextBoundaryIn returns the time remaining until the next Monday boundary.
func (svc *WeeklyResetService) NextBoundaryIn() time.Duration {
	now := svc.now()
	next := weekBoundary(now).AddDate(0, 0, 7)
	return next.Sub(now)
}

// CheckAndReset zeroes the weekly balance of every player whose record was
// last reset before the current boundary. Running it twice in a row is a
// no-op; the sweep compares against the boundary, not the wall clock.
func (svc *WeeklyResetService) CheckAndReset() (int, error) {
	boundary := weekBoundary(svc.now())

	due, err := svc.backend.ListPlayers(func(p *model.Player) bool {
		return p.LastWeeklyReset.Before(boundary)
	})
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, player := range due {
		_, err := svc.backend.MutatePlayer(player.ID, func(p *model.Player) error {
			// Re-check inside the mutation; a lazy reset may have won.
			if !p.LastWeeklyReset.Before(boundary) {
				return nil
			}
			p.WeeklyPoints = 0
			p.LastWeeklyReset = svc.now()
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("user", player.ID).Error("Failed to reset weekly balance")
			continue
		}
		reset++
	}

	if reset > 0 {
		weeklyResetsTotal.Add(float64(reset))
		log.WithField("players", reset).Info("Weekly balances reset")
	}

	return reset, nil
}

// ForceResetAll immediately zeroes the weekly balance of every player
// holding points, regardless of the boundary. Admin escape hatch. Players
// already at zero are left alone and not counted.
func (svc *WeeklyResetService) ForceResetAll() (int, error) {
	players, err := svc.backend.ListPlayers(func(p *model.Player) bool {
		return p.WeeklyPoints > 0
	})
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, player := range players {
		_, err := svc.backend.MutatePlayer(player.ID, func(p *model.Player) error {
			if p.WeeklyPoints <= 0 {
				return nil
			}
			p.WeeklyPoints = 0
			p.LastWeeklyReset = svc.now()
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("user", player.ID).Error("Failed to force reset weekly balance")
			continue
		}
		reset++
	}

	weeklyResetsTotal.Add(float64(reset))
	log.WithField("players", reset).Info("Weekly balances force reset")

	return reset, nil
}
