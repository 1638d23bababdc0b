package model

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// sampleRecord is the JSONL wire form of a benchmark sample.
type sampleRecord struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Label    string `json:"label"`
	Domain   string `json:"domain"`
	Source   string `json:"source"`
}

// ReadSamples decodes newline-delimited JSON samples. Blank lines are
// skipped; any malformed line or invalid label aborts the read.
func ReadSamples(r io.Reader) ([]Sample, error) {
	var samples []Sample
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec sampleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("sample line %d: %w", line, err)
		}
		label, err := ParseLabel(rec.Label)
		if err != nil {
			return nil, fmt.Errorf("sample line %d: %w", line, err)
		}
		s, err := NewSample(rec.ID, rec.Question, rec.Answer, label, rec.Domain, rec.Source)
		if err != nil {
			return nil, fmt.Errorf("sample line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	return samples, nil
}

// LoadSamples reads a JSONL sample file from disk.
func LoadSamples(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ReadSamples(f)
}

// GroundTruthFrom collapses samples into the id-to-label mapping the
// evaluation engine consumes. Duplicate ids are an error: the benchmark
// guarantees unique sample ids and a silent overwrite would skew metrics.
func GroundTruthFrom(samples []Sample) (GroundTruth, error) {
	gt := make(GroundTruth, len(samples))
	for _, s := range samples {
		if _, ok := gt[s.ID]; ok {
			return nil, fmt.Errorf("duplicate sample id %q", s.ID)
		}
		gt[s.ID] = s.Label
	}
	return gt, nil
}

// LoadGroundTruth loads a JSONL sample file and collapses it to ground truth.
func LoadGroundTruth(path string) (GroundTruth, error) {
	samples, err := LoadSamples(path)
	if err != nil {
		return nil, err
	}
	return GroundTruthFrom(samples)
}
