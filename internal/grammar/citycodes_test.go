package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/ryness-reports/internal/entity"
)

func TestParseCityCodes(t *testing.T) {
	text := "Harbor Point Lennar OAK 120\n" +
		"City Codes: OAK = Oakland, SL=San Leandro,\n" +
		"City Codes: fr=Fremont\n" +
		"footer"

	want := []entity.CityCodeRow{
		{CityCode: "OAK", CityName: "Oakland"},
		{CityCode: "SL", CityName: "San Leandro"},
		{CityCode: "FR", CityName: "Fremont"},
	}
	if diff := cmp.Diff(want, ParseCityCodes(text)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCityCodes_NoMarker(t *testing.T) {
	if got := ParseCityCodes("OAK=Oakland"); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestDedupCityCodes(t *testing.T) {
	in := []entity.CityCodeRow{
		{CityCode: "OAK", CityName: "Oakland"},
		{CityCode: "", CityName: "nowhere"},
		{CityCode: "OAK", CityName: "Oakland Hills"},
		{CityCode: "BK", CityName: "Berkeley"},
	}
	want := []entity.CityCodeRow{
		{CityCode: "OAK", CityName: "Oakland"},
		{CityCode: "BK", CityName: "Berkeley"},
	}
	if diff := cmp.Diff(want, DedupCityCodes(in)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
