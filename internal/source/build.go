package source

import (
	"net/http"

	"github.com/JonMunkholm/wlpa/internal/config"
)

// FromConfig wires a Loader from configuration. db is used for Schedule
// I-III when cfg.UsesDatabase() and may be nil otherwise. objects reads
// s3:// workbook locations and may be nil when none are configured. A
// missing Species+ token fails here, before any request is made.
func FromConfig(cfg *config.Config, db Querier, objects ObjectGetter) (*Loader, error) {
	layout, err := ParseSpecimenLayout(cfg.Data.SpecimensLayout)
	if err != nil {
		return nil, err
	}

	specimens := NewSpecimenWorkbook(cfg.Data.SpecimensFile, layout)
	specimens.Objects = objects

	l := &Loader{
		Specimens: specimens,
		Timeout:   cfg.Data.LoadTimeout,
	}

	if cfg.UsesDatabase() && db != nil {
		l.Species = NewScheduleTable(db, cfg.Data.ScheduleSheets)
	} else {
		wb := NewScheduleWorkbook(cfg.Data.SchedulesFile, cfg.Data.ScheduleSheets)
		wb.Objects = objects
		l.Species = wb
	}

	if cfg.CITES.Enabled {
		client, err := NewCITESClient(CITESOptions{
			BaseURL:        cfg.CITES.BaseURL,
			Token:          cfg.CITES.Token,
			PerPage:        cfg.CITES.PerPage,
			MaxPages:       cfg.CITES.MaxPages,
			RequestTimeout: cfg.CITES.RequestTimeout,
			HTTPClient:     &http.Client{Timeout: cfg.CITES.RequestTimeout},
		})
		if err != nil {
			return nil, err
		}
		l.ScheduleIV = client
	}

	return l, nil
}
