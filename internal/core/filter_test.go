package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleRecords() []Record {
	return []Record{
		{Schedule: ScheduleI, CommonName: "Tiger", ScientificName: "Panthera tigris"},
		{Schedule: ScheduleI, CommonName: "Asiatic Lion", ScientificName: "Panthera leo persica"},
		{Schedule: ScheduleII, CommonName: "Bengal Monitor", ScientificName: "Varanus bengalensis"},
		{Schedule: ScheduleII, CommonName: "", ScientificName: "Panthera pardus"},
		{Schedule: ScheduleIII, CommonName: "Spotted Deer", ScientificName: "Axis axis"},
		{Schedule: ScheduleIV, Appendix: AppendixII, CommonName: "", ScientificName: "Orchidaceae spp."},
	}
}

func TestFilterRecords(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name  string
		query Query
		want  []Record
	}{
		{
			name:  "common name substring",
			query: Query{CommonName: "tig"},
			want:  records[0:1],
		},
		{
			name:  "scientific name across schedules keeps order",
			query: Query{ScientificName: "panthera"},
			want:  []Record{records[0], records[1], records[3]},
		},
		{
			name:  "both fields combine with AND",
			query: Query{CommonName: "lion", ScientificName: "panthera"},
			want:  records[1:2],
		},
		{
			name:  "AND excludes rows matching one field only",
			query: Query{CommonName: "deer", ScientificName: "panthera"},
			want:  []Record{},
		},
		{
			name:  "case folded query",
			query: Query{ScientificName: "VARANUS"},
			want:  records[2:3],
		},
		{
			name:  "query is trimmed",
			query: Query{CommonName: "  spotted  "},
			want:  records[4:5],
		},
		{
			name:  "empty field never matches a non-empty query",
			query: Query{CommonName: "a", ScientificName: "pardus"},
			want:  []Record{},
		},
		{
			name:  "no match",
			query: Query{CommonName: "zzzznotaspecies"},
			want:  []Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRecords(records, tt.query, EmptyMatchNone)
			if got.Prompt {
				t.Error("Prompt = true for non-empty query")
			}
			if diff := cmp.Diff(tt.want, got.Records); diff != "" {
				t.Errorf("FilterRecords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterRecords_AllResultsContainQuery(t *testing.T) {
	records := sampleRecords()
	queries := []Query{
		{CommonName: "an"},
		{ScientificName: "a"},
		{CommonName: "e", ScientificName: "is"},
	}

	for _, q := range queries {
		got := FilterRecords(records, q, EmptyMatchNone)
		for _, r := range got.Records {
			if q.CommonName != "" && !strings.Contains(strings.ToLower(r.CommonName), strings.ToLower(q.CommonName)) {
				t.Errorf("query %+v returned %+v without common name match", q, r)
			}
			if q.ScientificName != "" && !strings.Contains(strings.ToLower(r.ScientificName), strings.ToLower(q.ScientificName)) {
				t.Errorf("query %+v returned %+v without scientific name match", q, r)
			}
		}
	}
}

func TestFilterRecords_StableAndIdempotent(t *testing.T) {
	records := sampleRecords()
	q := Query{ScientificName: "a"}

	first := FilterRecords(records, q, EmptyMatchNone)
	second := FilterRecords(records, q, EmptyMatchNone)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated filter differs (-first +second):\n%s", diff)
	}

	// Survivors must appear in the same relative order as the input.
	pos := make(map[Record]int, len(records))
	for i, r := range records {
		pos[r] = i
	}
	for i := 1; i < len(first.Records); i++ {
		if pos[first.Records[i-1]] >= pos[first.Records[i]] {
			t.Fatalf("order not preserved at %d: %+v before %+v", i, first.Records[i-1], first.Records[i])
		}
	}

	refiltered := FilterRecords(first.Records, q, EmptyMatchNone)
	if diff := cmp.Diff(first.Records, refiltered.Records); diff != "" {
		t.Errorf("filtering the result again changed it (-want +got):\n%s", diff)
	}
}

func TestFilterRecords_EmptyQueryPolicy(t *testing.T) {
	records := sampleRecords()
	empties := []Query{{}, {CommonName: "   "}, {CommonName: "\t", ScientificName: " "}}

	for _, q := range empties {
		none := FilterRecords(records, q, EmptyMatchNone)
		if !none.Prompt {
			t.Errorf("MatchNone with %+v: Prompt = false, want true", q)
		}
		if len(none.Records) != 0 {
			t.Errorf("MatchNone with %+v: got %d records, want 0", q, len(none.Records))
		}

		all := FilterRecords(records, q, EmptyMatchAll)
		if all.Prompt {
			t.Errorf("MatchAll with %+v: Prompt = true, want false", q)
		}
		if diff := cmp.Diff(records, all.Records); diff != "" {
			t.Errorf("MatchAll with %+v mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestFilterRecords_DoesNotAliasInput(t *testing.T) {
	records := sampleRecords()
	got := FilterRecords(records, Query{}, EmptyMatchAll)
	got.Records[0].CommonName = "changed"
	if records[0].CommonName != "Tiger" {
		t.Error("mutating the result changed the input slice")
	}
}

func TestFilterSpecimens(t *testing.T) {
	specimens := []Specimen{
		{Schedule: ScheduleIV, Appendix: AppendixI, Text: "Ailuropoda melanoleuca"},
		{Schedule: ScheduleIV, Appendix: AppendixII, Text: "Orchidaceae spp."},
		{Schedule: ScheduleIV, Appendix: AppendixII, Text: "Family Psittacidae (except ...)"},
		{Schedule: ScheduleIV, Appendix: AppendixIII, Text: "Vulpes bengalensis"},
	}

	tests := []struct {
		name   string
		query  string
		policy EmptyQueryPolicy
		want   []Specimen
		prompt bool
	}{
		{name: "orchid", query: "orchid", policy: EmptyMatchNone, want: specimens[1:2]},
		{name: "case insensitive", query: "PSITTAC", policy: EmptyMatchNone, want: specimens[2:3]},
		{name: "multiple keep order", query: "a", policy: EmptyMatchNone, want: specimens},
		{name: "no match", query: "zzzznotaspecies", policy: EmptyMatchNone, want: []Specimen{}},
		{name: "empty prompts", query: "  ", policy: EmptyMatchNone, want: []Specimen{}, prompt: true},
		{name: "empty matches all", query: "", policy: EmptyMatchAll, want: specimens},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSpecimens(specimens, tt.query, tt.policy)
			if got.Prompt != tt.prompt {
				t.Errorf("Prompt = %v, want %v", got.Prompt, tt.prompt)
			}
			if diff := cmp.Diff(tt.want, got.Specimens); diff != "" {
				t.Errorf("FilterSpecimens() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterSpecimens_OrchidAppendix(t *testing.T) {
	specimens := []Specimen{
		{Schedule: ScheduleIV, Appendix: AppendixI, Text: "Panthera tigris"},
		{Schedule: ScheduleIV, Appendix: AppendixII, Text: "Orchidaceae spp."},
	}
	got := FilterSpecimens(specimens, "orchid", EmptyMatchNone)
	if len(got.Specimens) != 1 {
		t.Fatalf("got %d specimens, want 1", len(got.Specimens))
	}
	if got.Specimens[0].Appendix != AppendixII {
		t.Errorf("Appendix = %q, want %q", got.Specimens[0].Appendix, AppendixII)
	}
}

func TestParseEmptyQueryPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    EmptyQueryPolicy
		wantErr bool
	}{
		{"", EmptyMatchNone, false},
		{"none", EmptyMatchNone, false},
		{" ALL ", EmptyMatchAll, false},
		{"everything", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEmptyQueryPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEmptyQueryPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEmptyQueryPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
