package models

// Verdict is the outcome of an automated verification run.
type Verdict string

const (
	VerdictApproved Verdict = "Approved"
	VerdictFlagged  Verdict = "Flagged"
)

// AIAnalysis is the record produced by the verification engine. It is written
// exactly once per verification cycle and immutable afterwards; the store
// rejects any attempt to overwrite an existing record.
type AIAnalysis struct {
	GPSMatch        bool     `json:"gpsMatch"`
	TimestampValid  bool     `json:"timestampValid"`
	ChangeDetected  bool     `json:"changeDetected"`
	QualityCheck    bool     `json:"qualityCheck"`
	ConfidenceScore int      `json:"confidenceScore"`
	Verdict         Verdict  `json:"verdict"`
	Notes           []string `json:"notes"`
}

// TargetStatus maps a verdict to the lifecycle state it drives.
func (v Verdict) TargetStatus() Status {
	if v == VerdictApproved {
		return StatusPendingApproval
	}
	return StatusFlagged
}
