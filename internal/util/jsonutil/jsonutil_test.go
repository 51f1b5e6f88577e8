package jsonutil

import (
	"strings"
	"testing"
)

func TestMarshalNoEscape_KeepsMarkup(t *testing.T) {
	out, err := MarshalNoEscape(map[string]string{"code": "<div>&amp;</div>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), `<`) {
		t.Fatalf("markup was escaped: %s", out)
	}
	if !strings.Contains(string(out), "<div>") {
		t.Fatalf("expected literal markup, got %s", out)
	}
}

func TestUnmarshalLenient_Direct(t *testing.T) {
	var v struct {
		Code string `json:"code"`
	}
	if err := UnmarshalLenient([]byte(`{"code":"<p>hi</p>"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Code != "<p>hi</p>" {
		t.Fatalf("got %q", v.Code)
	}
}

func TestUnmarshalLenient_StringWrapped(t *testing.T) {
	var v map[string]string
	// The whole object arrives quoted one level too deep.
	raw := `"{\"code\":\"<div>\"}"`
	if err := UnmarshalLenient([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v["code"] != "<div>" {
		t.Fatalf("expected unwrapped markup, got %q", v["code"])
	}
}

func TestUnmarshalLenient_Invalid(t *testing.T) {
	var v map[string]any
	if err := UnmarshalLenient([]byte("not json"), &v); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
