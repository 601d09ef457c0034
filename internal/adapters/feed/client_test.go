package feed

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleFeed = `{
  "_default": {
    "2": {"model_a": "gpt4o", "model_b": "gemini", "outcome": 1},
    "1": {
      "model_a": "gpt4o", "model_b": "qwen", "outcome": 0,
      "model_a_latency": {"time_to_first_token": 0.4, "total_time": 3.2, "response_length": 120},
      "model_b_latency": null
    },
    "3": {"model_a": "qwen", "model_b": "gemini", "outcome": 0.5}
  }
}`

func TestDecode(t *testing.T) {
	Convey("Given a well formed vote log", t, func() {
		b, err := Decode(strings.NewReader(sampleFeed))

		Convey("Then records are decoded in ID order", func() {
			So(err, ShouldBeNil)
			So(len(b.Records), ShouldEqual, 3)
			So(b.Records[0].ID, ShouldEqual, "1")
			So(b.Records[1].ID, ShouldEqual, "2")
			So(b.Records[1].Outcome.Kind(), ShouldEqual, model.OutcomeBWins)
			So(b.Bytes, ShouldEqual, len(sampleFeed))
		})

		Convey("Then latency objects are optional", func() {
			So(b.Records[0].ModelALatency, ShouldNotBeNil)
			So(b.Records[0].ModelALatency.TotalTime, ShouldEqual, 3.2)
			So(b.Records[0].ModelBLatency, ShouldBeNil)
		})
	})

	Convey("Given invalid JSON", t, func() {
		_, err := Decode(strings.NewReader(`{"_default": `))
		So(errors.Is(err, ErrDecode), ShouldBeTrue)
	})

	Convey("Given a record with a string outcome", t, func() {
		doc := `{"_default": {"1": {"model_a": "a", "model_b": "b", "outcome": "win"}}}`

		Convey("Then schema validation rejects only that record", func() {
			b, err := Decode(strings.NewReader(doc))
			So(err, ShouldBeNil)
			So(b.Records, ShouldBeEmpty)
			So(len(b.Undecodable), ShouldEqual, 1)
			So(b.Undecodable[0].ID, ShouldEqual, "1")
			So(errors.Is(b.Undecodable[0], ErrSchema), ShouldBeTrue)
		})

		Convey("Then without validation the record is reported undecodable", func() {
			b, err := Decode(strings.NewReader(doc), WithSchemaValidation(false))
			So(err, ShouldBeNil)
			So(b.Records, ShouldBeEmpty)
			So(len(b.Undecodable), ShouldEqual, 1)
			So(errors.Is(b.Undecodable[0], ErrDecode), ShouldBeTrue)
		})
	})

	Convey("Given malformed records among valid ones", t, func() {
		doc := `{"_default": {
  "1": {"model_a": "a", "model_b": "b", "outcome": 0},
  "2": {"model_a": "a", "model_b": "b", "outcome": "tie"},
  "3": {"model_a": "a", "model_b": "b", "outcome": null},
  "4": {"model_a": "b", "model_b": "a", "outcome": 0.5},
  "5": "not a vote"
}}`

		Convey("When decoding with schema validation", func() {
			b, err := Decode(strings.NewReader(doc))

			Convey("Then the valid records survive and the rest are reported", func() {
				So(err, ShouldBeNil)
				So(len(b.Records), ShouldEqual, 2)
				So(b.Records[0].ID, ShouldEqual, "1")
				So(b.Records[1].ID, ShouldEqual, "4")
				So(len(b.Undecodable), ShouldEqual, 3)
				ids := []string{}
				for _, re := range b.Undecodable {
					So(errors.Is(re, ErrSchema), ShouldBeTrue)
					ids = append(ids, re.ID)
				}
				So(ids, ShouldResemble, []string{"2", "3", "5"})
			})
		})
	})

	Convey("Given a document without the envelope", t, func() {
		_, err := Decode(strings.NewReader(`{"votes": {}}`))
		So(errors.Is(err, ErrSchema), ShouldBeTrue)

		_, err = Decode(strings.NewReader(`{"votes": {}}`), WithSchemaValidation(false))
		So(errors.Is(err, ErrDecode), ShouldBeTrue)
	})

	Convey("Given a record missing its outcome without validation", t, func() {
		b, err := Decode(strings.NewReader(`{"_default": {"1": {"model_a": "a", "model_b": "b"}}}`),
			WithSchemaValidation(false))
		So(err, ShouldBeNil)
		So(math.IsNaN(float64(b.Records[0].Outcome)), ShouldBeTrue)
		So(b.Records[0].Outcome.Kind(), ShouldEqual, model.OutcomeInvalid)
	})

	Convey("Given a document above the size limit", t, func() {
		_, err := Decode(strings.NewReader(sampleFeed), WithMaxBytes(16))
		So(errors.Is(err, ErrTooLarge), ShouldBeTrue)
	})

	Convey("Given an empty envelope", t, func() {
		b, err := Decode(strings.NewReader(`{"_default": {}}`))
		So(err, ShouldBeNil)
		So(b.Records, ShouldBeEmpty)
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a vote log on disk", t, func() {
		path := filepath.Join(t.TempDir(), "votes.json")
		So(os.WriteFile(path, []byte(sampleFeed), 0o600), ShouldBeNil)

		b, err := LoadFile(path)
		So(err, ShouldBeNil)
		So(len(b.Records), ShouldEqual, 3)
		So(b.FetchedAt.IsZero(), ShouldBeFalse)
	})

	Convey("Given a missing file", t, func() {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		So(errors.Is(err, ErrFetch), ShouldBeTrue)
	})
}

func TestClientFetch(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	Convey("Given a feed server", t, func() {
		var gotPath, gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("url")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleFeed))
		}))
		defer srv.Close()

		Convey("When fetching directly", func() {
			c := NewClient(srv.URL+"/live_votes.json", WithClock(func() time.Time { return fixed }))
			b, err := c.Fetch(context.Background())

			Convey("Then the batch is decoded and stamped", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/live_votes.json")
				So(len(b.Records), ShouldEqual, 3)
				So(b.FetchedAt, ShouldEqual, fixed)
			})
		})

		Convey("When fetching through a relay", func() {
			target := "https://raw.githubusercontent.com/org/repo/main/live_votes.json"
			c := NewClient(target, WithProxy(srv.URL+"/raw?url="))
			_, err := c.Fetch(context.Background())

			Convey("Then the feed URL is passed escaped", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/raw")
				So(gotQuery, ShouldEqual, target)
				So(c.URL(), ShouldEqual, srv.URL+"/raw?url="+url.QueryEscape(target))
			})
		})
	})

	Convey("Given a failing server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream broke", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Fetch(context.Background())
		So(errors.Is(err, ErrHTTPStatus), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "502")
	})

	Convey("Given a slow server", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).Fetch(context.Background())
		So(errors.Is(err, ErrFetch), ShouldBeTrue)
		So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
	})

	Convey("Given an unreachable server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := NewClient(addr).Fetch(context.Background())
		So(errors.Is(err, ErrFetch), ShouldBeTrue)
	})
}

func TestEncode(t *testing.T) {
	Convey("Given decoded records", t, func() {
		b, err := Decode(strings.NewReader(sampleFeed))
		So(err, ShouldBeNil)

		Convey("When encoding them again", func() {
			var buf strings.Builder
			So(Encode(&buf, b.Records), ShouldBeNil)

			Convey("Then the document passes schema validation and decodes the same", func() {
				So(ValidateDocument([]byte(buf.String())), ShouldBeNil)
				again, err := Decode(strings.NewReader(buf.String()))
				So(err, ShouldBeNil)
				So(again.Records, ShouldResemble, b.Records)
			})
		})

		Convey("When two records share an ID", func() {
			dup := append(b.Records, b.Records[0])
			So(errors.Is(Encode(io.Discard, dup), ErrDecode), ShouldBeTrue)
		})
	})
}
