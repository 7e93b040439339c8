package snapshot

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Decode parses one push message. A JSON null decodes to an empty batch.
// Any failure rejects the whole message; a partially decoded batch is never
// returned.
func Decode(data []byte) Result {
	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return Result{Err: &DecodeError{Size: len(data), Err: err}}
	}

	for i, p := range batch {
		if p.ProjectID == "" {
			return Result{Err: &DecodeError{
				Size: len(data),
				Err:  fmt.Errorf("record %d: %w", i, ErrMissingProjectID),
			}}
		}
	}

	if batch == nil {
		batch = Batch{}
	}
	return Result{Batch: batch}
}
