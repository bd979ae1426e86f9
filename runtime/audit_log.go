package runtime

// audit_log.go – the line-delimited JSON audit writer of §6: one JSON
// object per line, files rotated by UTC date as audit_YYYYMMDD.jsonl,
// retention pruning in days. Grounded on core/security.go's AuditTrail
// (single append-only *os.File behind a mutex) generalized to roll over to
// a new file when the UTC date changes, the way
// valence-runtime/src/security/audit.rs's FileAuditStorage derives its
// filename from the current date on every write.

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"capkernel/core"
)

// AuditLogConfig mirrors the audit_dir/audit_retention_days/
// audit_max_entries_per_file settings of §6.
type AuditLogConfig struct {
	Dir                 string
	RetentionDays       int
	MaxEntriesPerFile   int
}

// AuditLog is an append-only, UTC-date-rotating writer of KernelAuditEntry
// records.
type AuditLog struct {
	mu           sync.Mutex
	cfg          AuditLogConfig
	file         *os.File
	currentDate  string
	entriesInFile int
	lastHash     string
}

// OpenAuditLog creates cfg.Dir if needed and opens (or creates) today's log
// file.
func OpenAuditLog(cfg AuditLogConfig) (*AuditLog, error) {
	if cfg.MaxEntriesPerFile <= 0 {
		cfg.MaxEntriesPerFile = 10_000
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	al := &AuditLog{cfg: cfg}
	if err := al.rotateLocked(time.Now().UTC()); err != nil {
		return nil, err
	}
	return al, nil
}

func (a *AuditLog) filenameFor(date string) string {
	return filepath.Join(a.cfg.Dir, fmt.Sprintf("audit_%s.jsonl", date))
}

func (a *AuditLog) rotateLocked(now time.Time) error {
	date := now.Format("20060102")
	if a.file != nil && a.currentDate == date && a.entriesInFile < a.cfg.MaxEntriesPerFile {
		return nil
	}
	if a.file != nil {
		_ = a.file.Close()
	}
	f, err := os.OpenFile(a.filenameFor(date), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	a.file = f
	a.currentDate = date
	a.entriesInFile = 0
	return nil
}

// Append seals entry against the log's running hash chain (so the chain
// survives rotation) and writes it as one JSON line, rotating to a new
// dated file first if the UTC date has changed or the current file is full.
func (a *AuditLog) Append(entry core.KernelAuditEntry) (core.KernelAuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now().UTC()
	if err := a.rotateLocked(now); err != nil {
		return entry, err
	}

	sealed, err := core.SealKernelAuditEntry(entry, a.lastHash)
	if err != nil {
		return entry, err
	}
	raw, err := json.Marshal(sealed)
	if err != nil {
		return entry, core.ErrSerialization
	}
	if _, err := a.file.Write(append(raw, '\n')); err != nil {
		return entry, err
	}
	if err := a.file.Sync(); err != nil {
		return entry, err
	}
	a.entriesInFile++
	a.lastHash = sealed.EntryHash
	return sealed, nil
}

// Close closes the underlying file.
func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	return a.file.Close()
}

// PruneExpired deletes rotated log files older than the configured
// retention window, per §6's audit_retention_days.
func (a *AuditLog) PruneExpired() error {
	entries, err := os.ReadDir(a.cfg.Dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -a.cfg.RetentionDays)
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasPrefix(ent.Name(), "audit_") || !strings.HasSuffix(ent.Name(), ".jsonl") {
			continue
		}
		dateStr := strings.TrimSuffix(strings.TrimPrefix(ent.Name(), "audit_"), ".jsonl")
		date, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			_ = os.Remove(filepath.Join(a.cfg.Dir, ent.Name()))
		}
	}
	return nil
}

// ReadChain reads every entry across every rotated file in chronological
// (filename) order and verifies the hash chain, returning the entries.
func (a *AuditLog) ReadChain() ([]core.KernelAuditEntry, error) {
	files, err := os.ReadDir(a.cfg.Dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && strings.HasPrefix(f.Name(), "audit_") && strings.HasSuffix(f.Name(), ".jsonl") {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	var out []core.KernelAuditEntry
	for _, name := range names {
		f, err := os.Open(filepath.Join(a.cfg.Dir, name))
		if err != nil {
			return nil, err
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			var e core.KernelAuditEntry
			if err := json.Unmarshal(sc.Bytes(), &e); err == nil {
				out = append(out, e)
			}
		}
		scErr := sc.Err()
		f.Close()
		if scErr != nil {
			return nil, scErr
		}
	}
	if err := core.VerifyKernelAuditChain(out); err != nil {
		return out, err
	}
	return out, nil
}
