package migration

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/persistence"
)

type Migrator struct {
	options  MigrationOptions
	analyzer *Analyzer
	report   *MigrationReport
	output   io.Writer
	logger   *logrus.Entry
}

func NewMigrator(options MigrationOptions, output io.Writer, logger *logrus.Entry) *Migrator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New()) // Fallback to a null logger
	}
	if output == nil {
		output = io.Discard
	}
	return &Migrator{
		options:  options,
		analyzer: NewAnalyzer(),
		report:   NewMigrationReport(),
		output:   output,
		logger:   logger.WithField("component", "migrator"),
	}
}

func (m *Migrator) Report() *MigrationReport {
	return m.report
}

// CheckSnapshot analyzes s and returns it with every fixable issue repaired.
// In dry-run mode s is returned unchanged.
func (m *Migrator) CheckSnapshot(s models.Snapshot) (models.Snapshot, []MigrationIssue) {
	issues := m.analyzer.AnalyzeSnapshot(s)
	m.report.ItemsChecked += len(s.Items)
	m.report.IssuesFound += len(issues)

	if m.options.Verbose {
		for _, issue := range issues {
			subject := issue.ItemID
			if subject == "" {
				subject = "aisles"
			}
			fmt.Fprintf(m.output, "  - %s [%s]: %s\n", subject, issue.Type, issue.Description)
		}
	}

	if m.options.DryRun || len(issues) == 0 {
		return s, issues
	}

	for _, issue := range issues {
		if issue.Fixable {
			m.report.IssuesFixed++
		}
	}
	m.logger.WithFields(logrus.Fields{
		"found": len(issues),
		"fixed": m.report.IssuesFixed,
	}).Debug("Repaired snapshot")
	return Repair(s, issues), issues
}

// CopyStore copies the stored shopping state from src to dst byte for byte
// and reads it back to verify. Missing blobs are skipped. In dry-run mode
// nothing is written.
func (m *Migrator) CopyStore(ctx context.Context, src, dst blob.Store) error {
	keys := []string{persistence.AislesKey, persistence.ItemsKey}

	entries, err := src.ReadMany(ctx, keys)
	if err != nil {
		return fmt.Errorf("read %s store: %w", src.Driver(), err)
	}
	for _, key := range keys {
		if _, ok := entries[key]; !ok {
			m.logger.WithField("key", key).Info("Nothing stored under key, skipping")
			if m.options.Verbose {
				fmt.Fprintf(m.output, "  - %s: not present, skipped\n", key)
			}
		}
	}
	if len(entries) == 0 {
		return nil
	}

	if m.options.DryRun {
		m.report.BlobsCopied = len(entries)
		return nil
	}

	if err := dst.WriteMany(ctx, entries); err != nil {
		return fmt.Errorf("write %s store: %w", dst.Driver(), err)
	}

	copied, err := dst.ReadMany(ctx, keys)
	if err != nil {
		return fmt.Errorf("verify %s store: %w", dst.Driver(), err)
	}
	for key, want := range entries {
		if !bytes.Equal(copied[key], want) {
			m.report.AddError(key, fmt.Errorf("copied blob differs from source"))
			continue
		}
		m.report.BlobsCopied++
		if m.options.Verbose {
			fmt.Fprintf(m.output, "  - %s: copied %d bytes\n", key, len(want))
		}
	}
	if len(m.report.ProcessingErrors) > 0 {
		return fmt.Errorf("%d blob(s) failed verification", len(m.report.ProcessingErrors))
	}
	return nil
}
