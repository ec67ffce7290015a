package topics

const (
	// Apostas
	BetRecorded = "bet_recorded"
	BetSettled  = "bet_settled"

	// DLQs
	BetRecordedDLQ = "bet_recorded_dlq"
	BetSettledDLQ  = "bet_settled_dlq"
)
