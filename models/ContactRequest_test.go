package models

import "testing"

func TestContactRequestDirection(t *testing.T) {
	pitchID := "p-1"
	postID := "ip-1"

	// A pitch reference means the investor reached out.
	viaPitch := ContactRequest{
		DeveloperID: "dev-1",
		InvestorID:  "inv-1",
		PitchID:     &pitchID,
	}
	if got := viaPitch.SenderID(); got != "inv-1" {
		t.Fatalf("expected investor as sender, got %q", got)
	}
	if got := viaPitch.ReceiverID(); got != "dev-1" {
		t.Fatalf("expected developer as receiver, got %q", got)
	}

	// An investor post reference means the developer reached out.
	viaPost := ContactRequest{
		DeveloperID:    "dev-1",
		InvestorID:     "inv-1",
		InvestorPostID: &postID,
	}
	if got := viaPost.SenderID(); got != "dev-1" {
		t.Fatalf("expected developer as sender, got %q", got)
	}
	if got := viaPost.ReceiverID(); got != "inv-1" {
		t.Fatalf("expected investor as receiver, got %q", got)
	}
}

func TestContactRequestIsParticipant(t *testing.T) {
	request := ContactRequest{DeveloperID: "dev-1", InvestorID: "inv-1"}

	if !request.IsParticipant("dev-1") {
		t.Fatal("developer should be a participant")
	}
	if !request.IsParticipant("inv-1") {
		t.Fatal("investor should be a participant")
	}
	if request.IsParticipant("someone-else") {
		t.Fatal("third parties are not participants")
	}
	if request.IsParticipant("") {
		t.Fatal("empty user id is never a participant")
	}
}

func TestContactRequestContextTitle(t *testing.T) {
	request := ContactRequest{Pitch: &Pitch{Title: "Edge Caching"}}
	if got := request.ContextTitle(); got != "Edge Caching" {
		t.Fatalf("expected pitch title, got %q", got)
	}

	request = ContactRequest{InvestorPost: &InvestorPost{Title: "Seed Fund Thesis"}}
	if got := request.ContextTitle(); got != "Seed Fund Thesis" {
		t.Fatalf("expected post title, got %q", got)
	}

	request = ContactRequest{}
	if got := request.ContextTitle(); got != "" {
		t.Fatalf("expected empty title without a listing, got %q", got)
	}
}
