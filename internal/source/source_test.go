package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slot_bot/internal/model"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
	lastURL    string
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.lastURL = req.URL.String()
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name      string
		transport *mockTransport
		want      model.RawBatch
		wantErr   bool
	}{
		{
			name: "successful fetch",
			transport: &mockTransport{
				body:       `{"Raleigh Central DMV": "01/17/2025 9:00:00 AM", "Durham DMV Office": ""}`,
				statusCode: 200,
			},
			want: model.RawBatch{
				"Raleigh Central DMV": "01/17/2025 9:00:00 AM",
				"Durham DMV Office":   "",
			},
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "maintenance", statusCode: 503},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "invalid json",
			transport: &mockTransport{body: "<html>blocked</html>", statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.transport, "https://example.com/availability")
			got, err := s.Fetch(context.Background(), "Driver License Renewal")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("batch mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchSendsAppointmentType(t *testing.T) {
	transport := &mockTransport{body: `{}`, statusCode: 200}
	s := New(transport, "https://example.com/availability")

	if _, err := s.Fetch(context.Background(), "Driver License Renewal"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://example.com/availability?type=Driver+License+Renewal"
	if transport.lastURL != want {
		t.Errorf("request url = %q, want %q", transport.lastURL, want)
	}
}
