// Package jobs loads batch job definitions from YAML or JSON files.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bizforge-hq/bizforge-client/pkg/bizforge"
	"gopkg.in/yaml.v3"
)

// Job is one backend call described in a jobs file.
type Job struct {
	ID        string         `json:"id" yaml:"id"`
	Operation string         `json:"operation" yaml:"operation"`
	Params    map[string]any `json:"params" yaml:"params"`
}

type file struct {
	Jobs []Job `json:"jobs" yaml:"jobs"`
}

var operations = map[string]struct{}{
	bizforge.OpGenerateBrand:       {},
	bizforge.OpGenerateTagline:     {},
	bizforge.OpGenerateContent:     {},
	bizforge.OpGenerateDescription: {},
	bizforge.OpAnalyzeSentiment:    {},
	bizforge.OpAnalyzeTagline:      {},
	bizforge.OpGetColors:           {},
	bizforge.OpChat:                {},
	bizforge.OpGenerateLogo:        {},
	bizforge.OpTranscribeVoice:     {},
	bizforge.OpSaveItem:            {},
	bizforge.OpGetSavedItems:       {},
}

// KnownOperation reports whether op names a client operation.
func KnownOperation(op string) bool {
	_, ok := operations[op]
	return ok
}

// Load reads and validates a jobs file.
func Load(path string) ([]Job, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("jobs file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jobs file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	return Parse(raw, filepath.Ext(path))
}

// Parse decodes jobs from raw file content. ext selects the decoder; an empty
// ext tries YAML then JSON.
func Parse(data []byte, ext string) ([]Job, error) {
	parsed, err := decode(data, ext)
	if err != nil {
		return nil, err
	}
	if len(parsed.Jobs) == 0 {
		return nil, errors.New("jobs file contains no jobs entries")
	}

	seen := make(map[string]struct{}, len(parsed.Jobs))
	out := make([]Job, len(parsed.Jobs))
	for i := range parsed.Jobs {
		j := sanitize(parsed.Jobs[i], i)
		if err := validate(j); err != nil {
			return nil, fmt.Errorf("jobs[%d]: %w", i, err)
		}
		if _, dup := seen[j.ID]; dup {
			return nil, fmt.Errorf("duplicate job id %q", j.ID)
		}
		seen[j.ID] = struct{}{}
		out[i] = j
	}
	return out, nil
}

type unmarshalFn func([]byte, any) error

func decode(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f file
		if err := d.fn(data, &f); err != nil {
			errs = append(errs, fmt.Errorf("decode %s jobs: %w", d.name, err))
			continue
		}
		return f, nil
	}
	if len(errs) == 0 {
		return file{}, fmt.Errorf("jobs file extension %q not recognized (expected YAML or JSON)", ext)
	}
	return file{}, errors.Join(errs...)
}

// sanitize trims fields and assigns positional ids to anonymous jobs.
func sanitize(j Job, idx int) Job {
	j.ID = strings.TrimSpace(j.ID)
	j.Operation = strings.ToLower(strings.TrimSpace(j.Operation))
	if j.ID == "" {
		j.ID = fmt.Sprintf("job-%d", idx+1)
	}
	if j.Params == nil {
		j.Params = map[string]any{}
	}
	return j
}

func validate(j Job) error {
	if j.Operation == "" {
		return fmt.Errorf("operation is required for job %q", j.ID)
	}
	if !KnownOperation(j.Operation) {
		return fmt.Errorf("unknown operation %q for job %q", j.Operation, j.ID)
	}
	if j.Operation == bizforge.OpTranscribeVoice && j.String("file", "") == "" {
		return fmt.Errorf("params.file is required for job %q", j.ID)
	}
	return nil
}

// Decode converts the job params into a request struct using its JSON tags.
func (j Job) Decode(v any) error {
	raw, err := json.Marshal(j.Params)
	if err != nil {
		return fmt.Errorf("encode params for job %s: %w", j.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode params for job %s: %w", j.ID, err)
	}
	return nil
}

// String returns the trimmed string param for key or a fallback.
func (j Job) String(key, fallback string) string {
	if raw, ok := j.Params[key]; ok {
		if val, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
