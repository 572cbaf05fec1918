package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

type flexDoc struct {
	GPA FlexFloat `bson:"gpa" json:"gpa"`
}

func TestFlexFloat_DecodesLegacyBSON(t *testing.T) {
	tests := []struct {
		name    string
		doc     bson.M
		wantSet bool
		want    float64
	}{
		{"double", bson.M{"gpa": 3.2}, true, 3.2},
		{"int32", bson.M{"gpa": int32(3)}, true, 3},
		{"numeric string", bson.M{"gpa": " 2.75 "}, true, 2.75},
		{"garbage string", bson.M{"gpa": "n/a"}, false, 0},
		{"null", bson.M{"gpa": nil}, false, 0},
		{"missing", bson.M{}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var got flexDoc
			if err := bson.Unmarshal(raw, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.GPA.Set != tt.wantSet || got.GPA.Value != tt.want {
				t.Errorf("got %+v, want set=%v value=%v", got.GPA, tt.wantSet, tt.want)
			}
		})
	}
}

func TestFlexFloat_UnsetStoresNull(t *testing.T) {
	raw, err := bson.Marshal(flexDoc{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	v := bson.Raw(raw).Lookup("gpa")
	if v.Type != bson.TypeNull {
		t.Errorf("expected null, got %v", v.Type)
	}
}

func TestFlexFloat_JSON(t *testing.T) {
	var d flexDoc
	if err := json.Unmarshal([]byte(`{"gpa":"3.5"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.GPA.Or(0) != 3.5 {
		t.Errorf("got %v, want 3.5", d.GPA.Or(0))
	}

	if err := json.Unmarshal([]byte(`{"gpa":"abc"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.GPA.Set {
		t.Errorf("expected unset for non-numeric input, got %+v", d.GPA)
	}

	out, err := json.Marshal(flexDoc{GPA: NewFlexFloat(2.5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"gpa":2.5}` {
		t.Errorf("got %s", out)
	}
}

func TestFlexFloat_Or(t *testing.T) {
	if got := (FlexFloat{}).Or(2.5); got != 2.5 {
		t.Errorf("unset Or: got %v, want 2.5", got)
	}
	if got := NewFlexFloat(0).Or(2.5); got != 0 {
		t.Errorf("explicit zero Or: got %v, want 0", got)
	}
	if got := ParseFlexFloat("NaN"); got.Set {
		t.Errorf("NaN should be unset, got %+v", got)
	}
}
