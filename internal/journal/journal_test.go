package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEntry(docID string, score int) Entry {
	return Entry{
		DocumentID:  docID,
		Fingerprint: "sha256:abc",
		Status:      "approved",
		Score:       score,
		Violations:  0,
	}
}

func TestJournalChainsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if err := j.Record(testEntry("doc-1", 100)); err != nil {
		t.Fatal(err)
	}
	if err := j.Record(testEntry("doc-2", 85)); err != nil {
		t.Fatal(err)
	}
	j.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []Entry
	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, e)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PrevHash != GenesisHash {
		t.Errorf("first entry should chain from genesis, got %s", entries[0].PrevHash)
	}
	if entries[1].PrevHash != HashLine(lines[0]) {
		t.Errorf("second entry should chain from first line hash")
	}
	if entries[0].Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestJournalReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	j.Record(testEntry("doc-1", 100))
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	j.Record(testEntry("doc-2", 85))
	j.Close()

	result := Verify(path)
	if !result.Valid {
		t.Errorf("expected intact chain after reopen: %s (line %d)", result.Error, result.ErrorLine)
	}
	if result.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	j.Record(testEntry("doc-1", 100))
	j.Record(testEntry("doc-2", 85))
	j.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Flip the recorded score of the first entry.
	tampered := strings.Replace(string(data), `"score":100`, `"score":0`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatal(err)
	}

	result := Verify(path)
	if result.Valid {
		t.Error("expected verification to fail after tampering")
	}
	if result.ErrorLine != 2 {
		t.Errorf("expected break detected at line 2, got %d", result.ErrorLine)
	}
}
