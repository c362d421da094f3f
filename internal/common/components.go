package common

const (
	ComponentTracker       = "tracker"
	ComponentBlockSource   = "block-source"
	ComponentReorgDetector = "reorg-detector"
	ComponentAlerter       = "alerter"
	ComponentSnapshot      = "snapshot"
	ComponentAPI           = "api"
)

var AllComponents = map[string]struct{}{
	ComponentTracker:       {},
	ComponentBlockSource:   {},
	ComponentReorgDetector: {},
	ComponentAlerter:       {},
	ComponentSnapshot:      {},
	ComponentAPI:           {},
}
