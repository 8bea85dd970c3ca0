package models

import (
	"encoding/json"
	"testing"
)

func TestItemWireNames(t *testing.T) {
	item := Item{ID: "milk", Name: "Milk", AisleID: "Dairy", Quantity: 2, Needed: true, InCart: true}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Failed to marshal item: %v", err)
	}

	want := `{"id":"milk","name":"Milk","aisleId":"Dairy","quantity":2,"needed":true,"inCart":true}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestItemsClone(t *testing.T) {
	items := Items{"milk": {ID: "milk", Name: "Milk"}}
	clone := items.Clone()

	clone["milk"] = Item{ID: "milk", Name: "Oat Milk"}
	clone["eggs"] = Item{ID: "eggs"}

	if items["milk"].Name != "Milk" {
		t.Errorf("Clone shares items with the original")
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item in the original, got %d", len(items))
	}
}

func TestAislesClone(t *testing.T) {
	var nilAisles Aisles
	if got := nilAisles.Clone(); got == nil || len(got) != 0 {
		t.Errorf("Expected an empty non-nil clone, got %#v", got)
	}

	aisles := Aisles{"Produce", "Dairy"}
	clone := aisles.Clone()
	clone[0] = "Bakery"
	if aisles[0] != "Produce" {
		t.Errorf("Clone shares its backing array with the original")
	}
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot(nil, nil)
	if s.Aisles == nil || s.Items == nil {
		t.Fatalf("Expected empty collections, got %#v", s)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}
	if string(data) != `{"aisles":[],"items":{}}` {
		t.Errorf("Unexpected snapshot JSON: %s", data)
	}

	aisles := Aisles{"Dairy"}
	items := Items{"milk": {ID: "milk"}}
	s = NewSnapshot(aisles, items).Clone()
	aisles[0] = "Changed"
	delete(items, "milk")
	if s.Aisles[0] != "Dairy" {
		t.Errorf("Snapshot shares aisles with its source")
	}
	if _, ok := s.Items["milk"]; !ok {
		t.Errorf("Snapshot shares items with its source")
	}
}
