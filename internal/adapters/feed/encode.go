package feed

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/arena/internal/domain/model"
)

func fromModel(l *model.Latency) *wireLatency {
	if l == nil {
		return nil
	}
	return &wireLatency{
		TimeToFirstToken: l.TimeToFirstToken,
		TotalTime:        l.TotalTime,
		ResponseLength:   l.ResponseLength,
	}
}

// Encode writes records as a vote log document keyed by record ID. Records
// with duplicate IDs are an error.
func Encode(w io.Writer, records []model.MatchRecord) error {
	doc := struct {
		Default map[string]wireRecord `json:"_default"`
	}{Default: make(map[string]wireRecord, len(records))}

	for _, r := range records {
		if _, dup := doc.Default[r.ID]; dup {
			return fmt.Errorf("%w: duplicate record id %q", ErrDecode, r.ID)
		}
		outcome := float64(r.Outcome)
		doc.Default[r.ID] = wireRecord{
			ModelA:        r.ModelA,
			ModelB:        r.ModelB,
			Outcome:       &outcome,
			ModelALatency: fromModel(r.ModelALatency),
			ModelBLatency: fromModel(r.ModelBLatency),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode vote log: %w", err)
	}
	return nil
}
