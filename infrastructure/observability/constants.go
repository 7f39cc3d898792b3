package observability

// Metric name prefixes
const (
	MetricPrefix = "challenger"
)

// Metric names
const (
	// Challenge metrics
	ChallengeTransitionsTotal = MetricPrefix + ".challenges.transitions_total"
	SettlementsTotal          = MetricPrefix + ".challenges.settlements_total"

	// Sweep metrics
	SweepDuration    = MetricPrefix + ".sweep.duration"
	SweepFailedTotal = MetricPrefix + ".sweep.failed_total"

	// Ledger metrics
	LedgerTransactionsTotal = MetricPrefix + ".ledger.transactions_total"

	// Notification metrics
	NotificationsSentTotal = MetricPrefix + ".notifications.sent_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelStatus    = "status"
	LabelOutcome   = "outcome"
	LabelSource    = "source"
	LabelResult    = "result"
)

// Notification results
const (
	NotificationResultSent   = "sent"
	NotificationResultFailed = "failed"
)
