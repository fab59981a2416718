package lead_test

import (
	"errors"
	"reflect"
	"testing"

	"leadtrack/internal/lead"
	tu "leadtrack/internal/testutil"
)

func TestService_SnapshotRoundTrip(t *testing.T) {
	records := []lead.CallerRecord{tu.NewRecord("A", "+911111111111", "Pump")}
	source := newTestService(tu.NewFailingStore(records, "Pump", "Motor"), nil, nil)

	snap, err := source.TakeSnapshot()
	if err != nil {
		t.Fatalf("TakeSnapshot() error = %v", err)
	}
	if !snap.TakenAt.Equal(tu.FixedClock().Now()) {
		t.Errorf("TakenAt = %v, want clock time", snap.TakenAt)
	}

	target := tu.NewFailingStore([]lead.CallerRecord{tu.NewRecord("Z", "+919999999999", "Old")}, "Old")
	dest := newTestService(target, nil, nil)
	if err := dest.RestoreSnapshot(snap); err != nil {
		t.Fatalf("RestoreSnapshot() error = %v", err)
	}

	got, _ := dest.Records()
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Records() = %+v, want %+v", got, records)
	}
	products, _ := dest.Products()
	if want := []string{"Pump", "Motor"}; !reflect.DeepEqual(products, want) {
		t.Errorf("Products() = %v, want %v", products, want)
	}
}

func TestService_RestoreSnapshot_CatalogFailure(t *testing.T) {
	previous := []lead.CallerRecord{tu.NewRecord("Z", "+919999999999", "Old")}
	target := tu.NewFailingStore(previous, "Old")
	target.FailSaveCatalog = true
	svc := newTestService(target, nil, nil)

	snap := &lead.Snapshot{Records: []lead.CallerRecord{tu.NewRecord("A", "+911111111111", "Pump")}, Catalog: []string{"Pump"}}
	if err := svc.RestoreSnapshot(snap); !errors.Is(err, tu.ErrInjected) {
		t.Fatalf("RestoreSnapshot() error = %v, want %v", err, tu.ErrInjected)
	}
	got, _ := target.LoadRecords()
	if !reflect.DeepEqual(got, previous) {
		t.Errorf("records after failed restore = %+v, want previous", got)
	}
}

func TestService_RestoreSnapshot_Empty(t *testing.T) {
	target := tu.NewFailingStore([]lead.CallerRecord{tu.NewRecord("Z", "+919999999999", "Old")}, "Old")
	svc := newTestService(target, nil, nil)

	if err := svc.RestoreSnapshot(&lead.Snapshot{}); err != nil {
		t.Fatalf("RestoreSnapshot() error = %v", err)
	}
	records, _ := svc.Records()
	products, _ := svc.Products()
	if len(records) != 0 || len(products) != 0 {
		t.Errorf("after empty restore: %d records, %d products", len(records), len(products))
	}
}
