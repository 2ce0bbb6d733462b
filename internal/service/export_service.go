package service

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/nexplan/nexplan-api/pkg/export"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
)

const exportTimeLayout = "2006-01-02 15:04"

var agendaHeaders = []string{"Title", "Start", "End", "Category", "Location", "Description"}

// ExportService renders the current calendar as an ICS feed or a tabular
// CSV/PDF agenda. It reads a store snapshot; it never mutates anything.
type ExportService struct {
	store  eventStore
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(store eventStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  store,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ICS renders every stored event as a VEVENT in a single VCALENDAR.
func (s *ExportService) ICS() ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//NexPlan//Agenda//EN")

	now := time.Now()
	for _, ev := range s.store.List() {
		vevent := cal.AddEvent(ev.ID)
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.SetSummary(ev.Title)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		vevent.SetProperty(ics.ComponentPropertyCategories, string(ev.Category))
	}
	return []byte(cal.Serialize()), nil
}

// CSV renders the agenda table as CSV.
func (s *ExportService) CSV() ([]byte, error) {
	data, err := s.csv.Render(s.agendaDataset())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// PDF renders the agenda table as a PDF document.
func (s *ExportService) PDF() ([]byte, error) {
	data, err := s.pdf.Render(s.agendaDataset(), "NexPlan Agenda")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

func (s *ExportService) agendaDataset() export.Dataset {
	events := s.store.List()
	rows := make([]map[string]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, map[string]string{
			"Title":       ev.Title,
			"Start":       ev.Start.Format(exportTimeLayout),
			"End":         ev.End.Format(exportTimeLayout),
			"Category":    string(ev.Category),
			"Location":    ev.Location,
			"Description": ev.Description,
		})
	}
	return export.Dataset{Headers: agendaHeaders, Rows: rows}
}
