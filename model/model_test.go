package model

import (
	"path/filepath"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func sampleDocument() *Document {
	d := NewDocument(Meta{Title: "Sample", FileKey: "key", NodeID: "1:1"})
	d.Body = "n1-1"
	d.Nodes["n1-1"] = &Node{ID: "n1-1", TagName: "body", Children: []string{"n1-2", "n1-3"}}
	d.Nodes["n1-2"] = &Node{
		ID:         "n1-2",
		TagName:    "p",
		Text:       strPtr("A"),
		Attributes: map[string]string{"id": "n1-2", "title": "first"},
		Style:      Style{"color": "red", "font-size": "12px"},
	}
	d.Nodes["n1-3"] = &Node{
		ID:      "n1-3",
		TagName: "img",
		Assets:  map[string]*Asset{"1:3": {Format: AssetFormatSVG, URL: "https://cdn/1"}},
	}
	return d
}

func TestDocument_Validate(t *testing.T) {
	d := sampleDocument()
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	d.Nodes["n1-2"].Children = []string{"missing"}
	if err := d.Validate(); err == nil {
		t.Error("Validate() with dangling child returned nil")
	}

	d = sampleDocument()
	d.Body = "nope"
	if err := d.Validate(); err == nil {
		t.Error("Validate() with missing body returned nil")
	}
}

func TestDocument_Walk(t *testing.T) {
	d := sampleDocument()
	var order []string
	d.Walk(d.Body, func(n *Node, depth int) bool {
		order = append(order, n.ID)
		return true
	})
	want := []string{"n1-1", "n1-2", "n1-3"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Walk() order = %v, want %v", order, want)
	}
}

func TestDocument_Apply(t *testing.T) {
	d := sampleDocument()
	skipped, err := d.Apply(Layer{
		"n1-2": {
			"text":       "B",
			"style":      map[string]any{"color": "blue"},
			"attributes": map[string]any{"lang": "en"},
			"id":         "hijack",
		},
		"n1-3": {
			"assets": map[string]any{"1:3": map[string]any{"fileName": "1-3.svg", "width": 10}},
		},
		"gone": {"text": "x"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(skipped, []string{"gone"}) {
		t.Errorf("skipped = %v, want [gone]", skipped)
	}

	n := d.Nodes["n1-2"]
	if n.ID != "n1-2" {
		t.Errorf("ID changed by layer to %q", n.ID)
	}
	if n.Text == nil || *n.Text != "B" {
		t.Errorf("Text = %v, want B", n.Text)
	}
	// leaf keys merged, not whole map replaced
	if n.Style["color"] != "blue" || n.Style["font-size"] != "12px" {
		t.Errorf("Style = %v", n.Style)
	}
	if n.Attributes["lang"] != "en" || n.Attributes["title"] != "first" {
		t.Errorf("Attributes = %v", n.Attributes)
	}

	a := d.Nodes["n1-3"].Assets["1:3"]
	if a.URL != "https://cdn/1" || a.FileName != "1-3.svg" || a.Width != 10 || a.Format != AssetFormatSVG {
		t.Errorf("Asset = %+v", a)
	}
}

func TestDeepMerge_DoesNotAliasSource(t *testing.T) {
	src := map[string]any{"style": map[string]any{"color": "red"}}
	dst := map[string]any{}
	DeepMerge(dst, src)
	dst["style"].(map[string]any)["color"] = "blue"
	if src["style"].(map[string]any)["color"] != "red" {
		t.Error("DeepMerge() aliased source map")
	}
}

func TestLayer_LoadMissing(t *testing.T) {
	l, err := LoadLayer(filepath.Join(t.TempDir(), "user.domx-nodes.json"))
	if err != nil {
		t.Fatalf("LoadLayer() error = %v", err)
	}
	if l != nil {
		t.Errorf("LoadLayer() = %v, want nil", l)
	}
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "document.json")
	d := sampleDocument()
	if err := SaveJSON(path, d); err != nil {
		t.Fatalf("SaveJSON() error = %v", err)
	}
	var back Document
	if err := LoadJSON(path, &back); err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if !reflect.DeepEqual(back.Nodes, d.Nodes) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", back.Nodes, d.Nodes)
	}
	if back.Meta.Title != "Sample" || back.Body != "n1-1" {
		t.Errorf("meta/body lost: %+v", back)
	}
}
