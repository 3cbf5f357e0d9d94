package conversations

import (
	"strings"

	"voiceagent-platform/internal/tasks"
)

// remoteStatusMap normalizes the remote system's conversation status
// vocabulary to task statuses. The set of recognized strings is provisional
// pending the remote API's documentation; anything unrecognized degrades to
// unknown rather than failing.
var remoteStatusMap = map[string]tasks.Status{
	"done":        tasks.StatusFinished,
	"failed":      tasks.StatusFailed,
	"in_progress": tasks.StatusProcessing,
	"processing":  tasks.StatusProcessing,
}

// MapRemoteStatus is total: any input maps to a valid status.
func MapRemoteStatus(remote string) tasks.Status {
	if s, ok := remoteStatusMap[strings.ToLower(remote)]; ok {
		return s
	}
	return tasks.StatusUnknown
}

// IsTerminalRemoteStatus reports whether a remote status marks a call that
// has ended. Only terminal conversations are persisted; anything still in
// flight is skipped and re-evaluated on the next sync.
func IsTerminalRemoteStatus(remote string) bool {
	switch strings.ToLower(remote) {
	case "done", "failed":
		return true
	default:
		return false
	}
}
