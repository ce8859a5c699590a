package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestFearGreedFetchLatest(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("alternative-me", CategoryIndex, "http://example", map[string]string{"fng": "/fng/"})
	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/fng/" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		body := `{"data":[{"value":"63","value_classification":"Greed","timestamp":"1771009800"}]}`
		return jsonResponse(body), nil
	})}

	point, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Value != 63 || point.Classification != "Greed" {
		t.Fatalf("unexpected point: %+v", point)
	}
	if !point.Timestamp.Equal(time.Unix(1771009800, 0).UTC()) {
		t.Fatalf("unexpected timestamp: %v", point.Timestamp)
	}
}

func TestFearGreedNormalizesMillisTimestamp(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("alternative-me", CategoryIndex, "http://example", nil)
	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		body := `{"data":[{"value":"20","value_classification":"Extreme Fear","timestamp":"1771009800000"}]}`
		return jsonResponse(body), nil
	})}

	point, err := p.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !point.Timestamp.Equal(time.Unix(1771009800, 0).UTC()) {
		t.Fatalf("expected millisecond timestamp to normalize, got %v", point.Timestamp)
	}
}

func TestFearGreedEmptyPayload(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("alternative-me", CategoryIndex, "http://example", nil)
	p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"data":[]}`), nil
	})}

	if _, err := p.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestFearGreedClampsOutOfRangeValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int
	}{
		{"250", 100},
		{"-7", 0},
	}
	for _, tc := range cases {
		desc := testDescriptor("alternative-me", CategoryIndex, "http://example", nil)
		p := NewFearGreedProvider(trace.NewNoopTracerProvider().Tracer("test"), desc)
		p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			body := `{"data":[{"value":"` + tc.raw + `","value_classification":"Greed","timestamp":"1771009800"}]}`
			return jsonResponse(body), nil
		})}

		point, err := p.FetchLatest(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if point.Value != tc.want {
			t.Fatalf("value %s: expected clamp to %d, got %d", tc.raw, tc.want, point.Value)
		}
	}
}
