package reliability

import (
	"context"
	"time"
)

const backupJobTimeout = 10 * time.Minute

// BackupJob runs the nightly backup and rotates old archives.
type BackupJob struct {
	service       *BackupService
	retentionDays int
}

// NewBackupJob creates a scheduled backup job.
func NewBackupJob(service *BackupService, retentionDays int) *BackupJob {
	return &BackupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Run creates and uploads a backup, then deletes expired archives.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupJobTimeout)
	defer cancel()

	if err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	return j.service.RotateOldBackups(ctx, j.retentionDays)
}

// Name returns the job name.
func (j *BackupJob) Name() string {
	return "nightly_backup"
}
