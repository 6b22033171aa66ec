package scheduler

import (
	"context"
	"fmt"

	"ottermoney/internal/domain/credential"
	"ottermoney/internal/domain/sync"
)

// SyncJob refreshes one user's cached accounts from the bridge.
type SyncJob struct {
	userID string
	sync   *sync.Service
}

func NewSyncJob(userID string, syncService *sync.Service) *SyncJob {
	return &SyncJob{userID: userID, sync: syncService}
}

func (j *SyncJob) Execute(ctx context.Context) error {
	if _, _, err := j.sync.SyncAccounts(ctx, j.userID); err != nil {
		return fmt.Errorf("account sync failed: %w", err)
	}
	return nil
}

func (j *SyncJob) UserID() string { return j.userID }

func (j *SyncJob) Description() string { return "simplefin account sync" }

// SyncJobProvider builds one sync job per user holding a credential. Plugs
// into Config.JobProvider.
func SyncJobProvider(credentials credential.Repository, syncService *sync.Service) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		userIDs, err := credentials.ListUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users with credentials: %w", err)
		}

		jobs := make([]Job, 0, len(userIDs))
		for _, id := range userIDs {
			jobs = append(jobs, NewSyncJob(id, syncService))
		}
		return jobs, nil
	}
}
