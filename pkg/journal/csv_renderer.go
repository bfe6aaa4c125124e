package journal

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// RunExport pairs a run with its operations for rendering.
type RunExport struct {
	Run        Run
	Operations []Operation
}

// CsvRenderer renders journal runs for spreadsheet import.
type CsvRenderer interface {
	RenderRuns(exports []RunExport) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

func (r *CsvRendererImpl) RenderRuns(exports []RunExport) (string, error) {
	data := [][]string{
		{"run", "period", "date", "action", "project", "task", "hours", "status", "error"},
	}
	for _, export := range exports {
		for _, op := range export.Operations {
			data = append(data, []string{
				export.Run.ID,
				export.Run.Period,
				op.Date,
				op.Action,
				op.Project,
				op.Task,
				strconv.FormatFloat(op.Hours, 'f', -1, 64),
				op.Status,
				op.Error,
			})
		}
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
