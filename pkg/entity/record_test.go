package entity

import (
	"testing"
)

func TestLookup(t *testing.T) {
	rec := Record{
		"A":     Record{"X": "1"},
		"Name":  "Laser",
		"Empty": "",
		"Zero":  "0",
		"Pad":   "00",
		"Lower": "none",
		"Upper": "None",
		"MissileDesign": map[string]any{
			"Volley": "3",
		},
		"Blank": Record{},
	}

	tests := []struct {
		name string
		path string
		want any
	}{
		{"top level string", "Name", "Laser"},
		{"nested", "A.X", "1"},
		{"missing intermediate is skipped", "B.X", nil},
		{"missing intermediate then nested", "B.A.X", "1"},
		{"plain map nested", "MissileDesign.Volley", "3"},
		{"empty string", "Empty", nil},
		{"exact zero", "Zero", nil},
		{"double zero is kept", "Pad", "00"},
		{"lower none", "Lower", nil},
		{"capital none", "Upper", nil},
		{"empty record", "Blank", nil},
		{"missing final", "Nope", nil},
		{"empty path", "", nil},
		{"descend into string", "Name.X", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(rec, tt.path)
			if got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLookupNumbers(t *testing.T) {
	rec := Record{"Cost": "1500", "Ratio": "2.5", "Bad": "abc"}

	if n, ok := LookupInt(rec, "Cost"); !ok || n != 1500 {
		t.Errorf("LookupInt(Cost) = %d, %v", n, ok)
	}
	if n, ok := LookupInt(rec, "Ratio"); !ok || n != 2 {
		t.Errorf("LookupInt(Ratio) = %d, %v", n, ok)
	}
	if _, ok := LookupInt(rec, "Bad"); ok {
		t.Error("LookupInt(Bad) should fail")
	}
	if f, ok := LookupFloat(rec, "Ratio"); !ok || f != 2.5 {
		t.Errorf("LookupFloat(Ratio) = %v, %v", f, ok)
	}
	if _, ok := LookupFloat(rec, "Missing"); ok {
		t.Error("LookupFloat(Missing) should fail")
	}
}

func TestTableIDs(t *testing.T) {
	table := Table{"10": {}, "2": {}, "1": {}}
	got := table.IDs()
	want := []string{"1", "2", "10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", got, want)
		}
	}
}

func TestRecordClone(t *testing.T) {
	rec := Record{"Name": "Laser"}
	clone := rec.Clone()
	clone["DisplayName"] = "Laser Mk I"
	if _, ok := rec["DisplayName"]; ok {
		t.Error("Clone should not share storage with the original")
	}
}
