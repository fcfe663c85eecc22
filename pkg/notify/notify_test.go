package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/toolscout/toolscout/pkg/catalog"
)

func testDigest() *Digest {
	return &Digest{
		Title: "Trending AI tools",
		Body:  "Top 2 tools by recent interactions",
		Kind:  catalog.RankTrending,
		Entries: []catalog.RankingEntry{
			{Position: 1, ToolName: "PixelFree", Score: 42},
			{Position: 2, ToolName: "TextGen", Score: 17},
		},
	}
}

func TestSlackSend(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := NewSlack(ts.URL).Send(context.Background(), testDigest()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, ok := got["blocks"]; !ok {
		t.Errorf("payload missing blocks: %v", got)
	}
}

func TestSlackSendErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	if err := NewSlack(ts.URL).Send(context.Background(), testDigest()); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestWebhookSignsPayload(t *testing.T) {
	const secret = "shhh"
	var gotSig string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := NewWebhook(ts.URL, secret).Send(context.Background(), testDigest()); err != nil {
		t.Fatalf("send: %v", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Errorf("signature = %q, want %q", gotSig, want)
	}
}

func TestWebhookNoSecretNoSignature(t *testing.T) {
	var gotSig string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature-256")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := NewWebhook(ts.URL, "").Send(context.Background(), testDigest()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotSig != "" {
		t.Errorf("unexpected signature header %q", gotSig)
	}
}

type stubNotifier struct {
	name string
	err  error
	sent int
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) Send(ctx context.Context, d *Digest) error {
	s.sent++
	return s.err
}

func TestManagerBroadcast(t *testing.T) {
	ok := &stubNotifier{name: "ok"}
	bad := &stubNotifier{name: "bad", err: errors.New("boom")}
	m := NewManager([]Notifier{ok, bad})

	if !m.HasNotifiers() {
		t.Fatal("HasNotifiers = false")
	}

	err := m.Broadcast(context.Background(), testDigest())
	if err == nil || !strings.Contains(err.Error(), "bad: boom") {
		t.Errorf("err = %v, want wrapped bad: boom", err)
	}
	if ok.sent != 1 || bad.sent != 1 {
		t.Errorf("sent counts = %d/%d, want 1/1", ok.sent, bad.sent)
	}
}

func TestManagerEmpty(t *testing.T) {
	m := NewManager(nil)
	if m.HasNotifiers() {
		t.Error("HasNotifiers = true for empty manager")
	}
	if err := m.Broadcast(context.Background(), testDigest()); err != nil {
		t.Errorf("broadcast with no notifiers: %v", err)
	}
}
