package updater

import "time"

// Stage is a state of the update cycle.
//
//	Idle → Checking → UpToDate
//	                → AwaitingConsent → Declined
//	                                  → Downloading → Failed
//	                                                → Installed → ProcessExit
//
// Failed is also reached when the check itself fails.
type Stage int

const (
	StageIdle Stage = iota
	StageChecking
	StageUpToDate
	StageAwaitingConsent
	StageDeclined
	StageDownloading
	StageFailed
	StageInstalled
	StageProcessExit
)

var stageNames = map[Stage]string{
	StageIdle:            "idle",
	StageChecking:        "checking",
	StageUpToDate:        "up_to_date",
	StageAwaitingConsent: "awaiting_consent",
	StageDeclined:        "declined",
	StageDownloading:     "downloading",
	StageFailed:          "failed",
	StageInstalled:       "installed",
	StageProcessExit:     "process_exit",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the stage name in JSON payloads.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the cycle has finished in s.
func (s Stage) Terminal() bool {
	switch s {
	case StageUpToDate, StageDeclined, StageFailed, StageProcessExit:
		return true
	}
	return false
}

// CycleResult is a snapshot of the update cycle.
type CycleResult struct {
	Stage          Stage     `json:"stage"`
	CurrentVersion string    `json:"current_version"`
	LatestVersion  string    `json:"latest_version,omitempty"`
	DownloadURL    string    `json:"download_url,omitempty"`
	LocalPath      string    `json:"local_path,omitempty"`
	Error          string    `json:"error,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`

	err error
}

// Err returns the error that ended the cycle, if any.
func (r CycleResult) Err() error {
	return r.err
}
