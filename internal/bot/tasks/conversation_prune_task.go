package tasks

import (
	"context"
)

// newConversationPruneTask drops add and edit flows that were abandoned for
// longer than conversation.max_idle. A zero max_idle keeps flows forever.
func newConversationPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", ConversationPrune)

	return func(ctx context.Context) error {
		maxIdle := deps.Config.Conversation.MaxIdle
		if maxIdle <= 0 {
			log.DebugContext(ctx, "Conversation pruning disabled")
			return nil
		}

		if n := deps.States.Prune(maxIdle); n > 0 {
			log.InfoContext(ctx, "Pruned idle conversations", "count", n, "max_idle", maxIdle)
		}
		return nil
	}
}
