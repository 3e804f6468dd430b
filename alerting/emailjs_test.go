package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greeneye/models"
)

func TestSend(t *testing.T) {
	var got sendReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1.0/email/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "svc", "tpl", "pub")
	err := s.Send(context.Background(), models.EmailAlert{Email: "farmer@example.com", Subject: "Rain", Message: "Rain expected tomorrow"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ServiceID != "svc" || got.TemplateID != "tpl" || got.UserID != "pub" {
		t.Errorf("unexpected ids: %+v", got)
	}
	p := got.TemplateParams
	if p.ToEmail != "farmer@example.com" || p.Subject != "Rain" || p.Message != "Rain expected tomorrow" || p.FromName != FromName {
		t.Errorf("unexpected template params: %+v", p)
	}
}

func TestSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	if err := NewSender(srv.URL, "s", "t", "p").Send(context.Background(), models.EmailAlert{Email: "a@b.c"}); err == nil {
		t.Fatal("expected an error for a non-200 status")
	}
}
