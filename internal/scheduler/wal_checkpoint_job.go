package scheduler

import (
	"github.com/aristath/coinfolio/internal/database"
	"github.com/rs/zerolog"
)

// WALCheckpointJob truncates the write-ahead logs of the given databases
type WALCheckpointJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewWALCheckpointJob creates a new WAL checkpoint job
func NewWALCheckpointJob(log zerolog.Logger, databases ...*database.DB) *WALCheckpointJob {
	return &WALCheckpointJob{
		databases: databases,
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints every database. A failing database does not stop the others;
// the last error is returned.
func (j *WALCheckpointJob) Run() error {
	var lastErr error
	checked := 0
	for _, db := range j.databases {
		if db == nil {
			continue
		}
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
			lastErr = err
			continue
		}
		checked++
	}

	j.log.Debug().Int("checked", checked).Msg("WAL checkpoints completed")
	return lastErr
}
