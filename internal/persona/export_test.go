package persona

import (
	"reflect"
	"strings"
	"testing"
)

const sampleExport = `{
  "guild": {"name": "test server"},
  "messages": [
    {"content": "morning all", "author": {"id": "42", "name": "alice_w", "nickname": "Alice"}},
    {"content": "hey", "author": {"id": "7", "name": "bob"}},
    {"content": "", "author": {"id": "42", "name": "alice_w", "nickname": "Alice"}},
    {"content": "  brb  ", "author": {"id": "42", "name": "alice_w", "nickname": "Alice"}}
  ]
}`

func TestReadExport(t *testing.T) {
	name, msgs, err := ReadExport(strings.NewReader(sampleExport), "42")
	if err != nil {
		t.Fatalf("ReadExport() error = %v", err)
	}
	if name != "Alice" {
		t.Errorf("name = %q, want Alice (nickname preferred)", name)
	}
	if want := []string{"morning all", "brb"}; !reflect.DeepEqual(msgs, want) {
		t.Errorf("messages = %v, want %v", msgs, want)
	}
}

func TestReadExport_FallsBackToUsername(t *testing.T) {
	export := `{"messages": [{"content": "hi", "author": {"id": "7", "name": "bob"}}]}`
	name, _, err := ReadExport(strings.NewReader(export), "7")
	if err != nil {
		t.Fatalf("ReadExport() error = %v", err)
	}
	if name != "bob" {
		t.Errorf("name = %q, want bob", name)
	}
}

func TestReadExport_UnknownAuthor(t *testing.T) {
	if _, _, err := ReadExport(strings.NewReader(sampleExport), "999"); err == nil {
		t.Fatal("expected error for author with no messages")
	}
}

func TestReadExport_MalformedJSON(t *testing.T) {
	if _, _, err := ReadExport(strings.NewReader("{nope"), "42"); err == nil {
		t.Fatal("expected parse error")
	}
}
