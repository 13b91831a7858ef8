package utility

import (
	"sync"

	"github.com/google/uuid"
)

// RunID identifies one invocation; estimates persisted from the same run
// share it.
type RunID = uuid.UUID

var (
	runID     RunID
	runIDOnce sync.Once
)

func GetRunID() RunID {
	runIDOnce.Do(func() {
		runID = uuid.Must(uuid.NewV7())
	})
	return runID
}
