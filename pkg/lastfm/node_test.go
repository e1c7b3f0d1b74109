package lastfm

import (
	"encoding/xml"
	"errors"
	"testing"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(xmlHeader + `<lfm status="ok">
	<artist rank="3">
		<name> Cher </name>
		<image size="small">s.png</image>
		<image size="large">l.png</image>
		<empty/>
	</artist>
</lfm>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Name != "lfm" {
		t.Errorf("expected root lfm, got %s", doc.Name)
	}
	if status, _ := doc.Attr("status"); status != "ok" {
		t.Errorf("expected status ok, got %q", status)
	}

	artist := doc.Child("artist")
	if artist == nil {
		t.Fatal("expected artist child")
	}
	if rank, ok := artist.Attr("rank"); !ok || rank != "3" {
		t.Errorf("expected rank 3, got %q", rank)
	}
	if got := artist.Child("name").Text(); got != "Cher" {
		t.Errorf("expected trimmed name Cher, got %q", got)
	}
	if n := len(artist.ChildrenNamed("image")); n != 2 {
		t.Errorf("expected 2 images, got %d", n)
	}
	if artist.Child("empty").HasElements() {
		t.Error("expected empty element to have no children")
	}
	if !artist.HasElements() {
		t.Error("expected artist to have children")
	}
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "whitespace", data: "   \n"},
		{name: "truncated", data: `<lfm status="ok"><artist>`},
		{name: "mismatched end tag", data: `<lfm status="ok"><artist></album></lfm>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(tt.data)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestParseDocument_SyntaxError(t *testing.T) {
	_, err := ParseDocument([]byte(`<lfm status="ok"><artist><name>Cher</artist></lfm>`))
	var syntaxErr *xml.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *xml.SyntaxError, got %v", err)
	}
}

func TestNode_NilSafe(t *testing.T) {
	var n *Node
	if n.Text() != "" {
		t.Error("expected empty text from nil node")
	}
	if n.Child("x") != nil {
		t.Error("expected nil child from nil node")
	}
	if _, ok := n.Attr("x"); ok {
		t.Error("expected missing attribute on nil node")
	}
	if n.HasElements() {
		t.Error("expected nil node to have no elements")
	}
}
