package model

import (
	"testing"
	"time"
)

func TestNewGuitar(t *testing.T) {
	g := NewGuitar("Fender", "Telecaster", "009-046")

	if g.ID == "" {
		t.Error("expected generated id")
	}
	if g.Maker != "Fender" || g.Model != "Telecaster" || g.StringSpecs != "009-046" {
		t.Errorf("fields not set: %+v", g)
	}
	if g.UpdatedAt.Before(g.CreatedAt) {
		t.Error("updatedAt must not precede createdAt")
	}
}

func TestNewMaintenanceLog(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := NewMaintenanceLog("g1", date, "setup", "truss rod tweak")

	if l.ID == "" {
		t.Error("expected generated id")
	}
	if l.GuitarID != "g1" || !l.MaintenanceDate.Equal(date) {
		t.Errorf("fields not set: %+v", l)
	}
	if l.CreatedAt.IsZero() {
		t.Error("createdAt should be set")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestGuitarValidate(t *testing.T) {
	tests := []struct {
		name    string
		guitar  Guitar
		wantErr bool
	}{
		{"valid", Guitar{ID: "1", Maker: "Fender", Model: "Strat"}, false},
		{"missing maker", Guitar{ID: "1", Model: "Strat"}, true},
		{"missing model", Guitar{ID: "1", Maker: "Fender"}, true},
		{"empty strings ok", Guitar{ID: "1", Maker: "Fender", Model: "Strat", StringSpecs: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guitar.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaintenanceLogValidate(t *testing.T) {
	valid := MaintenanceLog{ID: "L1", GuitarID: "1", TypeOfWork: "strings"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid log rejected: %v", err)
	}

	missingType := MaintenanceLog{ID: "L1", GuitarID: "1"}
	if err := missingType.Validate(); err == nil {
		t.Error("log without type of work should be rejected")
	}

	emptyNotes := MaintenanceLog{ID: "L1", GuitarID: "1", TypeOfWork: "cleaning", Notes: ""}
	if err := emptyNotes.Validate(); err != nil {
		t.Errorf("empty notes should be allowed: %v", err)
	}
}
