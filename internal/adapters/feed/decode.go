package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/model"
)

// Batch is one decoded feed document.
type Batch struct {
	Records   []model.MatchRecord
	FetchedAt time.Time
	Bytes     int
	// Undecodable lists records whose JSON failed the vote schema or could
	// not be mapped to a match.
	Undecodable []headtohead.RecordError
}

type wireLatency struct {
	TimeToFirstToken float64 `json:"time_to_first_token"`
	TotalTime        float64 `json:"total_time"`
	ResponseLength   float64 `json:"response_length"`
}

type wireRecord struct {
	ModelA        string       `json:"model_a"`
	ModelB        string       `json:"model_b"`
	Outcome       *float64     `json:"outcome"`
	ModelALatency *wireLatency `json:"model_a_latency"`
	ModelBLatency *wireLatency `json:"model_b_latency"`
}

type wireDocument struct {
	Default map[string]json.RawMessage `json:"_default"`
}

func (l *wireLatency) toModel() *model.Latency {
	if l == nil {
		return nil
	}
	return &model.Latency{
		TimeToFirstToken: l.TimeToFirstToken,
		TotalTime:        l.TotalTime,
		ResponseLength:   l.ResponseLength,
	}
}

// Decode reads a vote log from r using the client defaults adjusted by opts.
func Decode(r io.Reader, opts ...Option) (Batch, error) {
	return newClient("", opts...).decode(r)
}

// LoadFile decodes a vote log stored on disk.
func LoadFile(path string, opts ...Option) (Batch, error) {
	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if err != nil {
		return Batch{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = f.Close() }()
	c := newClient("", opts...)
	b, err := c.decode(f)
	if err != nil {
		return Batch{}, err
	}
	b.FetchedAt = c.now()
	return b, nil
}

func (c *Client) decode(r io.Reader) (Batch, error) {
	body, err := io.ReadAll(io.LimitReader(r, c.maxBytes+1))
	if err != nil {
		return Batch{}, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	if int64(len(body)) > c.maxBytes {
		return Batch{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBytes)
	}
	if c.validate {
		if err := ValidateDocument(body); err != nil {
			return Batch{}, err
		}
	}
	b, err := parse(body, c.validate)
	if err != nil {
		return Batch{}, err
	}
	b.Bytes = len(body)
	return b, nil
}

// parse maps the envelope to records. With validate set each record is checked
// against the vote schema first and failures are reported as undecodable.
func parse(body []byte, validate bool) (Batch, error) {
	var doc wireDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return Batch{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if doc.Default == nil {
		return Batch{}, fmt.Errorf("%w: missing _default object", ErrDecode)
	}

	ids := make([]string, 0, len(doc.Default))
	for id := range doc.Default {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b := Batch{Records: make([]model.MatchRecord, 0, len(ids))}
	for _, id := range ids {
		if validate {
			if err := ValidateRecord(doc.Default[id]); err != nil {
				b.Undecodable = append(b.Undecodable, headtohead.RecordError{ID: id, Err: err})
				continue
			}
		}
		var w wireRecord
		if err := json.Unmarshal(doc.Default[id], &w); err != nil {
			b.Undecodable = append(b.Undecodable, headtohead.RecordError{ID: id, Err: fmt.Errorf("%w: %w", ErrDecode, err)})
			continue
		}
		outcome := math.NaN()
		if w.Outcome != nil {
			outcome = *w.Outcome
		}
		b.Records = append(b.Records, model.MatchRecord{
			ID:            id,
			ModelA:        w.ModelA,
			ModelB:        w.ModelB,
			Outcome:       model.Outcome(outcome),
			ModelALatency: w.ModelALatency.toModel(),
			ModelBLatency: w.ModelBLatency.toModel(),
		})
	}
	return b, nil
}
