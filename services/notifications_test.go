package services

import (
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func TestShouldSuppress(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if ShouldSuppress(nil, now) {
		t.Fatal("no prior requests must not suppress")
	}

	prior := []time.Time{now.Add(-2 * time.Hour), now.Add(-ThrottleWindow - time.Second)}
	if ShouldSuppress(prior, now) {
		t.Fatal("requests older than the window must not suppress")
	}

	prior = append(prior, now.Add(-10*time.Minute))
	if !ShouldSuppress(prior, now) {
		t.Fatal("a request inside the window must suppress")
	}

	// Right at the boundary: cutoff itself is outside the window.
	boundary := []time.Time{now.Add(-ThrottleWindow)}
	if ShouldSuppress(boundary, now) {
		t.Fatal("a request exactly one window ago must not suppress")
	}
}

func TestSendMailUnconfigured(t *testing.T) {
	es := &EmailService{}
	if err := es.SendMail("to@example.com", "subject", "body"); err == nil {
		t.Fatal("expected error when transport is not configured")
	}
}

func TestSendMailBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	es := &EmailService{
		host: "smtp.example.com",
		port: "587",
		from: "noreply@fundfeed.example",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
	}

	if err := es.SendMail("investor@example.com", "Hello", "Body text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("wrong address: %s", gotAddr)
	}
	if gotFrom != "noreply@fundfeed.example" {
		t.Fatalf("wrong from: %s", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "investor@example.com" {
		t.Fatalf("wrong recipients: %v", gotTo)
	}
	for _, want := range []string{"Subject: Hello", "Body text"} {
		if !strings.Contains(string(gotMsg), want) {
			t.Fatalf("message missing %q:\n%s", want, gotMsg)
		}
	}
}
