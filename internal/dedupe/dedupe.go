// Package dedupe provides shared singleflight groups used to collapse
// concurrent duplicate requests into a single execution.
package dedupe

import "golang.org/x/sync/singleflight"

// AdvanceGroup deduplicates round-advance requests keyed by session id, so
// a double click or a retried request waits for the round already being
// played instead of queueing another one.
var AdvanceGroup singleflight.Group
