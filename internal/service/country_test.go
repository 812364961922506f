package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/country-explorer/internal/gateway/restcountries"
)

// fakeViewRecorder captures RecordView calls.
type fakeViewRecorder struct {
	recorded []string
	err      error
}

func (f *fakeViewRecorder) RecordView(ctx context.Context, userID, countryCode string) error {
	f.recorded = append(f.recorded, countryCode)
	return f.err
}

// newCountryFixture serves a canned provider with n countries on the
// full-list endpoint and a single-country answer on /alpha/{code}.
func newCountryFixture(t *testing.T, n int) *restcountries.Client {
	t.Helper()

	countries := make([]map[string]any, n)
	for i := range countries {
		countries[i] = map[string]any{
			"name": map[string]string{"common": fmt.Sprintf("Country %d", i)},
			"cca2": fmt.Sprintf("C%d", i),
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/independent":
			json.NewEncoder(w).Encode(countries)
		default:
			// /alpha/{code} answers a one-element list
			json.NewEncoder(w).Encode(countries[:1])
		}
	}))
	t.Cleanup(srv.Close)

	return restcountries.NewClient(srv.URL)
}

func TestCountryAll_Pagination(t *testing.T) {
	gateway := newCountryFixture(t, 10)
	svc := NewCountryService(gateway, &fakeViewRecorder{}, testLogger())

	// Second page of five covers the back half of the list
	page, err := svc.All(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("len(page) = %d, want 5", len(page))
	}
	if page[0].Name.Common != "Country 5" || page[4].Name.Common != "Country 9" {
		t.Errorf("page = %q..%q, want Country 5..Country 9",
			page[0].Name.Common, page[4].Name.Common)
	}
}

func TestCountryAll_DefaultsAndBounds(t *testing.T) {
	gateway := newCountryFixture(t, 7)
	svc := NewCountryService(gateway, &fakeViewRecorder{}, testLogger())

	// Zero values fall back to page 1, limit 5
	page, err := svc.All(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(page) != 5 || page[0].Name.Common != "Country 0" {
		t.Errorf("default page = %d entries starting at %q", len(page), page[0].Name.Common)
	}

	// A short final page is returned as-is
	page, err = svc.All(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("final page = %d entries, want 2", len(page))
	}

	// A page past the end is empty, not an error
	page, err = svc.All(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("All() past end error = %v", err)
	}
	if len(page) != 0 {
		t.Errorf("page past end = %+v, want empty", page)
	}
}

func TestCountryByCode_RecordsUppercasedView(t *testing.T) {
	gateway := newCountryFixture(t, 1)
	views := &fakeViewRecorder{}
	svc := NewCountryService(gateway, views, testLogger())

	country, err := svc.ByCode(context.Background(), "user-1", "est")
	if err != nil {
		t.Fatalf("ByCode() error = %v", err)
	}
	if country == nil {
		t.Fatal("ByCode() returned nil country")
	}
	if len(views.recorded) != 1 || views.recorded[0] != "EST" {
		t.Errorf("recorded views = %v, want [EST]", views.recorded)
	}
}

func TestCountryByCode_RecordingFailureIsSwallowed(t *testing.T) {
	gateway := newCountryFixture(t, 1)
	views := &fakeViewRecorder{err: errors.New("database is on fire")}
	svc := NewCountryService(gateway, views, testLogger())

	// The lookup result must survive a failed history write
	country, err := svc.ByCode(context.Background(), "user-1", "EST")
	if err != nil {
		t.Fatalf("ByCode() error = %v, want nil despite recording failure", err)
	}
	if country == nil {
		t.Fatal("ByCode() returned nil country")
	}
}

func TestCountryByCode_AnonymousLookupNotRecorded(t *testing.T) {
	gateway := newCountryFixture(t, 1)
	views := &fakeViewRecorder{}
	svc := NewCountryService(gateway, views, testLogger())

	if _, err := svc.ByCode(context.Background(), "", "EST"); err != nil {
		t.Fatalf("ByCode() error = %v", err)
	}
	if len(views.recorded) != 0 {
		t.Errorf("recorded views = %v, want none", views.recorded)
	}
}
