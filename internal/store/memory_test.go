package store

import (
	"errors"
	"testing"

	"github.com/weatherdash/weather-dashboard/internal/forecast"
)

func result(address string) forecast.Result {
	return forecast.Result{
		Record: forecast.WeatherRecord{ResolvedAddress: address},
	}
}

func TestSaveReplacesRecord(t *testing.T) {
	s := NewMemoryStore()

	s.Save("Nairobi", result("Nairobi, Kenya"))
	s.Save("Nairobi", result("Nairobi CBD, Kenya"))

	got, err := s.Latest("Nairobi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Record.ResolvedAddress != "Nairobi CBD, Kenya" {
		t.Errorf("expected the newer record to fully replace the older, got %q", got.Record.ResolvedAddress)
	}
}

func TestLatestNotFound(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Latest("Nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKeyNormalization(t *testing.T) {
	s := NewMemoryStore()
	s.Save("  Nairobi ", result("Nairobi, Kenya"))

	if _, err := s.Latest("nairobi"); err != nil {
		t.Fatalf("expected case-insensitive lookup, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewMemoryStore()
	s.Save("Nairobi", result("Nairobi, Kenya"))
	s.Delete("Nairobi")

	if _, err := s.Latest("Nairobi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
