package core

// Schedule labels used by the statute.
const (
	ScheduleI   = "Schedule-I"
	ScheduleII  = "Schedule-II"
	ScheduleIII = "Schedule-III"
	ScheduleIV  = "Schedule-IV"
)

// Appendix labels. An appendix is a classification tag, not a ranking.
const (
	AppendixI   = "I"
	AppendixII  = "II"
	AppendixIII = "III"
)

// Appendices lists appendix labels in load order.
var Appendices = []string{AppendixI, AppendixII, AppendixIII}

// Record is one listed species.
// Appendix is empty for Schedules I-III.
type Record struct {
	Schedule       string `json:"schedule"`
	Appendix       string `json:"appendix"`
	CommonName     string `json:"common_name"`
	ScientificName string `json:"scientific_name"`
}

// Specimen is one Schedule IV entry. Text holds the whole source cell,
// which may be a scientific name, a family name or a free-form note.
type Specimen struct {
	Schedule string `json:"schedule"`
	Appendix string `json:"appendix"`
	Text     string `json:"text"`
}

// NewRecord builds a Record with every field trimmed.
// Returns false when both names are blank; such rows produce no record.
func NewRecord(schedule, appendix, commonName, scientificName string) (Record, bool) {
	r := Record{
		Schedule:       CleanCell(schedule),
		Appendix:       CleanCell(appendix),
		CommonName:     CleanCell(commonName),
		ScientificName: CleanCell(scientificName),
	}
	if r.CommonName == "" && r.ScientificName == "" {
		return Record{}, false
	}
	return r, true
}

// NewSpecimen builds a Specimen with every field trimmed.
// A blank schedule defaults to ScheduleIV. Returns false for blank text.
func NewSpecimen(schedule, appendix, text string) (Specimen, bool) {
	s := Specimen{
		Schedule: CleanCell(schedule),
		Appendix: CleanCell(appendix),
		Text:     CleanCell(text),
	}
	if s.Text == "" {
		return Specimen{}, false
	}
	if s.Schedule == "" {
		s.Schedule = ScheduleIV
	}
	return s, true
}

// AsRecord pads a specimen into Record shape for unified search.
func (s Specimen) AsRecord() Record {
	return Record{
		Schedule:       s.Schedule,
		Appendix:       s.Appendix,
		ScientificName: s.Text,
	}
}

// AppendixIndex returns the load-order position of an appendix label,
// or len(Appendices) for unknown labels.
func AppendixIndex(appendix string) int {
	for i, a := range Appendices {
		if a == appendix {
			return i
		}
	}
	return len(Appendices)
}
