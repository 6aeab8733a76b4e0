package reliability

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/database"
)

const maintenanceTimeout = 2 * time.Minute

// MaintenanceJob checkpoints the WAL and verifies integrity of every
// database. Keeps WAL files from growing unbounded between backups.
type MaintenanceJob struct {
	databases map[string]*database.DB
	log       zerolog.Logger
}

// NewMaintenanceJob creates a database maintenance job.
func NewMaintenanceJob(databases map[string]*database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		log:       log.With().Str("job", "db_maintenance").Logger(),
	}
}

// Run checkpoints and health-checks each database. Failures are logged
// per database; the last error is returned so the scheduler records it.
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()

	var lastErr error
	for name, db := range j.databases {
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Error().Err(err).Str("database", name).Msg("WAL checkpoint failed")
			lastErr = err
			continue
		}

		if err := db.HealthCheck(ctx); err != nil {
			j.log.Error().Err(err).Str("database", name).Msg("Health check failed")
			lastErr = err
			continue
		}

		j.log.Debug().Str("database", name).Msg("Maintenance completed")
	}

	return lastErr
}

// Name returns the job name.
func (j *MaintenanceJob) Name() string {
	return "db_maintenance"
}
