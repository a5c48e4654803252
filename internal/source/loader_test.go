package source

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/google/go-cmp/cmp"
)

type fakeSource struct {
	name  string
	batch Batch
	err   error
	delay time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(ctx context.Context) (Batch, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Batch{}, ctx.Err()
		}
	}
	return f.batch, f.err
}

func TestLoader_UnifiedOrderIsIndependentOfCompletion(t *testing.T) {
	species := &fakeSource{
		name:  "species",
		delay: 30 * time.Millisecond,
		batch: Batch{Records: []core.Record{
			{Schedule: core.ScheduleI, CommonName: "Tiger", ScientificName: "Panthera tigris"},
			{Schedule: core.ScheduleII, CommonName: "Jackal", ScientificName: "Canis aureus"},
		}},
	}
	fourth := &fakeSource{
		name: "species+",
		batch: Batch{Records: []core.Record{
			{Schedule: core.ScheduleIV, Appendix: "I", ScientificName: "Panthera leo persica"},
			{Schedule: core.ScheduleIV, Appendix: "II", ScientificName: "Python molurus"},
		}},
	}

	l := &Loader{Species: species, ScheduleIV: fourth}
	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := append(append([]core.Record{}, species.batch.Records...), fourth.batch.Records...)
	if diff := cmp.Diff(want, snap.Unified()); diff != "" {
		t.Errorf("Unified() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_SpecimensPaddedWithoutScheduleIVSource(t *testing.T) {
	specimens := &fakeSource{
		name: "specimens",
		batch: Batch{Specimens: []core.Specimen{
			{Schedule: core.ScheduleIV, Appendix: "II", Text: "Orchidaceae spp."},
		}},
	}
	l := &Loader{Specimens: specimens}

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []core.Record{{Schedule: core.ScheduleIV, Appendix: "II", ScientificName: "Orchidaceae spp."}}
	if diff := cmp.Diff(want, snap.Unified()); diff != "" {
		t.Errorf("Unified() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_EmptyScheduleIVSourceReplacesSpecimens(t *testing.T) {
	specimens := &fakeSource{
		name:  "specimens",
		batch: Batch{Specimens: []core.Specimen{{Schedule: core.ScheduleIV, Appendix: "I", Text: "Aves"}}},
	}
	fourth := &fakeSource{name: "species+", batch: Batch{Warnings: []string{"Species+ appendix I: partial data"}}}

	snap, err := (&Loader{Specimens: specimens, ScheduleIV: fourth}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := snap.Unified(); len(got) != 0 {
		t.Errorf("Unified() = %v, want empty", got)
	}
	if got := snap.Specimens(); len(got) != 1 {
		t.Errorf("Specimens() = %v, want one entry", got)
	}
	if !snap.Degraded() {
		t.Error("Degraded() = false, want true")
	}
}

func TestLoader_MergesWarningsInSourceOrder(t *testing.T) {
	l := &Loader{
		Species:    &fakeSource{name: "a", batch: Batch{Warnings: []string{"a1"}}},
		Specimens:  &fakeSource{name: "b", batch: Batch{Warnings: []string{"b1", "b2"}}, delay: 10 * time.Millisecond},
		ScheduleIV: &fakeSource{name: "c", batch: Batch{Warnings: []string{"c1"}}},
	}
	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a1", "b1", "b2", "c1"}, snap.Warnings()); diff != "" {
		t.Errorf("Warnings() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_SourceErrorFailsLoad(t *testing.T) {
	cause := errors.New("open workbook WLPA.xlsx: zip: not a valid zip file")
	l := &Loader{
		Species:   &fakeSource{name: "schedules workbook WLPA.xlsx", err: cause},
		Specimens: &fakeSource{name: "specimens", delay: time.Second},
	}

	start := time.Now()
	snap, err := l.Load(context.Background())
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if snap != nil {
		t.Errorf("Load() snapshot = %v, want nil", snap)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap cause", err)
	}
	if !strings.Contains(err.Error(), "schedules workbook WLPA.xlsx") {
		t.Errorf("error %q does not name the source", err)
	}
	if got := core.MapError(err).Code; got != "SRC001" {
		t.Errorf("MapError code = %q, want SRC001", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("slow source was not cancelled after the first failure")
	}
}

func TestLoader_Timeout(t *testing.T) {
	l := &Loader{
		Species: &fakeSource{name: "slow", delay: time.Second},
		Timeout: 20 * time.Millisecond,
	}
	_, err := l.Load(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Load() error = %v, want deadline exceeded", err)
	}
	if got := core.MapError(err).Code; got != "REQ001" {
		t.Errorf("MapError code = %q, want REQ001", got)
	}
}

func TestLoader_NoSources(t *testing.T) {
	snap, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Unified()) != 0 || len(snap.Specimens()) != 0 || snap.Degraded() {
		t.Errorf("empty loader produced %+v", snap.Stats())
	}
}
