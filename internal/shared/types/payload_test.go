package types

import (
	"encoding/json"
	"testing"
)

func TestCommunity_JSON(t *testing.T) {
	tests := []struct {
		in          string
		wantString  string
		wantNumeric bool
		wantOut     string
	}{
		{in: `2`, wantString: "2", wantNumeric: true, wantOut: `2`},
		{in: `2.0`, wantString: "2", wantNumeric: true, wantOut: `2`},
		{in: `1.5`, wantString: "1.5", wantNumeric: true, wantOut: `1.5`},
		{in: `1e21`, wantString: "1e+21", wantNumeric: true, wantOut: `1e+21`},
		{in: `1e-7`, wantString: "1e-7", wantNumeric: true, wantOut: `1e-7`},
		{in: `0.0000015`, wantString: "0.0000015", wantNumeric: true, wantOut: `0.0000015`},
		{in: `"north"`, wantString: "north", wantNumeric: false, wantOut: `"north"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c Community
			if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
				t.Fatalf("Unmarshal(%s) = %v", tt.in, err)
			}
			if c.String() != tt.wantString {
				t.Errorf("String() = %q; want %q", c.String(), tt.wantString)
			}
			if _, ok := c.Numeric(); ok != tt.wantNumeric {
				t.Errorf("Numeric() ok = %v; want %v", ok, tt.wantNumeric)
			}
			out, err := json.Marshal(c)
			if err != nil {
				t.Fatalf("Marshal = %v", err)
			}
			if string(out) != tt.wantOut {
				t.Errorf("Marshal = %s; want %s", out, tt.wantOut)
			}
		})
	}
}

func TestCommunity_rejectsOtherKinds(t *testing.T) {
	for _, in := range []string{`true`, `{}`, `[1]`} {
		var c Community
		if err := json.Unmarshal([]byte(in), &c); err == nil {
			t.Errorf("Unmarshal(%s) = nil; want error", in)
		}
	}
}

func TestSitePayload_roundTripField(t *testing.T) {
	site := SitePayload{Name: "Deva", Lon: 22.9115, Lat: 45.873, PageRank: 0.07, Community: CommunityID(3)}
	b, err := json.Marshal(site)
	if err != nil {
		t.Fatalf("Marshal = %v", err)
	}
	want := `{"name":"Deva","lon":22.9115,"lat":45.873,"pagerank":0.07,"community":3}`
	if string(b) != want {
		t.Errorf("Marshal = %s; want %s", b, want)
	}
}
