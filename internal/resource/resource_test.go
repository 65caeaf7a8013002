package resource

import "testing"

func TestBodyHelpersPullTypedValuesOutOfADecodedJSONBody(t *testing.T) {
	b := Body{
		"title":      "Opening",
		"dry_run":    true,
		"order":      float64(3), // encoding/json decodes numbers as float64
		"confidence": float64(0.75),
		"aliases":    []any{"Adusia", "Adzia"},
		"meta":       map[string]any{"era": "19th century", "pages": float64(12)},
	}

	if got := body(b, "title"); got != "Opening" {
		t.Errorf("body(title) = %q, want %q", got, "Opening")
	}
	if got := body(b, "missing"); got != "" {
		t.Errorf("body(missing) = %q, want empty", got)
	}
	if !bodyBool(b, "dry_run") {
		t.Error("bodyBool(dry_run) = false, want true")
	}
	if got := bodyInt(b, "order", -1); got != 3 {
		t.Errorf("bodyInt(order) = %d, want 3", got)
	}
	if got := bodyInt(b, "missing", -1); got != -1 {
		t.Errorf("bodyInt(missing) = %d, want the default -1", got)
	}
	if got := bodyFloat(b, "confidence", 1.0); got != 0.75 {
		t.Errorf("bodyFloat(confidence) = %v, want 0.75", got)
	}
	if got := bodyStrings(b, "aliases"); len(got) != 2 || got[0] != "Adusia" || got[1] != "Adzia" {
		t.Errorf("bodyStrings(aliases) = %v, want [Adusia Adzia]", got)
	}
	if got := bodyMeta(b, "meta"); got["era"] != "19th century" {
		t.Errorf("bodyMeta(meta)[era] = %q, want %q", got["era"], "19th century")
	}
	// pages is a number, not a string, and bodyMeta only keeps string values.
	if _, ok := bodyMeta(b, "meta")["pages"]; ok {
		t.Error("bodyMeta(meta) must drop non-string values, kept pages")
	}
}

func TestBodyHelpersOnNilBodyReturnZeroValues(t *testing.T) {
	var b Body
	if got := body(b, "title"); got != "" {
		t.Errorf("body(nil) = %q, want empty", got)
	}
	if bodyBool(b, "dry_run") {
		t.Error("bodyBool(nil) = true, want false")
	}
	if got := bodyInt(b, "order", 7); got != 7 {
		t.Errorf("bodyInt(nil) = %d, want the default 7", got)
	}
	if got := bodyStrings(b, "aliases"); got != nil {
		t.Errorf("bodyStrings(nil) = %v, want nil", got)
	}
	if got := bodyMeta(b, "meta"); got != nil {
		t.Errorf("bodyMeta(nil) = %v, want nil", got)
	}
}

func TestSplitCompoundIDSeparatesEntityIDFromTheSecondKeyComponent(t *testing.T) {
	cases := []struct {
		id       string
		wantA    string
		wantRest string
	}{
		{"11111111-1111-1111-1111-111111111111:pl", "11111111-1111-1111-1111-111111111111", "pl"},
		{"entity-id:work:with:colons", "entity-id", "work:with:colons"},
		{"entity-id-only", "entity-id-only", ""},
	}
	for _, c := range cases {
		gotA, gotRest := splitCompoundID(c.id)
		if gotA != c.wantA || gotRest != c.wantRest {
			t.Errorf("splitCompoundID(%q) = (%q, %q), want (%q, %q)", c.id, gotA, gotRest, c.wantA, c.wantRest)
		}
	}
}

func TestNewRegistryCoversEveryKind(t *testing.T) {
	reg := NewRegistry()
	for _, k := range []Kind{
		KindWork, KindDocument, KindSection, KindBlock, KindEntity,
		KindLabel, KindOverlay, KindMention, KindAlignment, KindReview,
	} {
		r, ok := reg[k]
		if !ok {
			t.Errorf("registry is missing Kind %q", k)
			continue
		}
		if r.Lister == nil && r.Reader == nil && r.Writer == nil {
			t.Errorf("registry entry for %q implements none of Lister/Reader/Writer", k)
		}
	}
}
