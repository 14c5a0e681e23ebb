package remote

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/epsilon-records/audiokit/config"
	"github.com/epsilon-records/audiokit/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Token: "sk-test"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSubmit_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/process/denoise" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "sk-test" {
			t.Error("expected auth token header")
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Operation != "denoise" {
			t.Errorf("unexpected operation %q", req.Operation)
		}
		json.NewEncoder(w).Encode(Response{
			Payload: []byte("clean"),
			Meta:    map[string]any{"snr_gain_db": 12.5},
		})
	})

	resp, err := c.Submit(context.Background(), Request{
		Operation: "denoise",
		Payload:   []byte("noisy"),
		Params:    map[string]any{"strength": 0.8},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Payload) != "clean" {
		t.Errorf("unexpected payload %q", resp.Payload)
	}
	if resp.Meta["snr_gain_db"] != 12.5 {
		t.Errorf("unexpected meta %v", resp.Meta)
	}
}

func TestSubmit_AuthFailureIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Submit(context.Background(), Request{Operation: "denoise"})
	if errors.KindOf(err) != errors.KindRemoteTransport {
		t.Fatalf("expected REMOTE_TRANSPORT for 401, got %v", err)
	}
}

func TestSubmit_ServiceErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": {"kind": "BAD_AUDIO", "message": "unsupported codec"}}`))
	})

	_, err := c.Submit(context.Background(), Request{Operation: "separate"})
	if errors.KindOf(err) != errors.KindRemoteService {
		t.Fatalf("expected REMOTE_SERVICE, got %v", err)
	}
	var app *errors.AppError
	if !stderrors.As(err, &app) || app.Message != "unsupported codec" {
		t.Errorf("expected service message surfaced, got %v", err)
	}
}

func TestSubmit_ServerErrorIsService(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Submit(context.Background(), Request{Operation: "transcribe"})
	if errors.KindOf(err) != errors.KindRemoteService {
		t.Fatalf("expected REMOTE_SERVICE for 500, got %v", err)
	}
}

func TestSubmit_ConnectionRefusedIsTransport(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1", Token: "sk-test", Timeout: time.Second}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Submit(context.Background(), Request{Operation: "denoise"})
	if errors.KindOf(err) != errors.KindRemoteTransport {
		t.Fatalf("expected REMOTE_TRANSPORT, got %v", err)
	}
}

func TestSubmit_ContextTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Submit(ctx, Request{Operation: "denoise"})
	if errors.KindOf(err) != errors.KindTimeout {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestSubmit_CanceledIsNotTimeout(t *testing.T) {
	// A canceled call must surface as context.Canceled: TIMEOUT is
	// fallback-eligible, cancellation is not.
	started := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Submit(ctx, Request{Operation: "denoise"})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.KindOf(err) == errors.KindTimeout {
		t.Fatalf("cancellation classified as TIMEOUT: %v", err)
	}
}

func TestNewFromEnv_MissingTokenDisablesRemote(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")
	cfg := config.RemoteConfig{BaseURL: "https://api.epsilon-records.dev"}
	if _, ok := NewFromEnv(cfg, nil); ok {
		t.Fatal("expected remote disabled without a token")
	}

	t.Setenv(config.TokenEnvVar, "sk-test")
	if _, ok := NewFromEnv(cfg, nil); !ok {
		t.Fatal("expected remote enabled with token")
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{Token: "x"}, nil); err == nil {
		t.Fatal("expected error without base URL")
	}
}
