package migration

import (
	"time"
)

// Issue types reported by the analyzer.
const (
	IssueKeyMismatch    = "key_mismatch"
	IssueQuantity       = "invalid_quantity"
	IssueUnnormalized   = "unnormalized_name"
	IssueEmptyName      = "empty_name"
	IssueDanglingAisle  = "dangling_aisle"
	IssueDuplicateName  = "duplicate_name"
	IssueDuplicateAisle = "duplicate_aisle"
)

type MigrationIssue struct {
	Type        string
	Description string
	// ItemID is the mapping key of the affected item, empty for aisle issues.
	ItemID   string
	Current  interface{}
	Expected interface{}
	Fixable  bool
}

type MigrationReport struct {
	ItemsChecked     int
	IssuesFound      int
	IssuesFixed      int
	BlobsCopied      int
	ProcessingErrors map[string]error
	StartTime        time.Time
	EndTime          time.Time
}

type MigrationOptions struct {
	DryRun  bool
	Verbose bool
}

func NewMigrationReport() *MigrationReport {
	return &MigrationReport{
		ProcessingErrors: make(map[string]error),
		StartTime:        time.Now(),
	}
}

func (r *MigrationReport) AddError(key string, err error) {
	r.ProcessingErrors[key] = err
}

func (r *MigrationReport) Complete() {
	r.EndTime = time.Now()
}

func (r *MigrationReport) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
