package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvRendererImpl_RenderRuns(t *testing.T) {
	firstRun := Run{ID: "run-1", Period: "2025-11", StartedAt: time.Date(2025, time.November, 30, 12, 0, 0, 0, time.UTC)}
	secondRun := Run{ID: "run-2", Period: "2025-12-01"}

	t.Run("renders one header and one row per operation across runs", func(t *testing.T) {
		exports := []RunExport{
			{Run: firstRun, Operations: []Operation{
				{RunID: "run-1", Date: "2025-11-24", Action: "add", Project: "14", Task: "13", Hours: 2.25, Status: StatusOK},
				{RunID: "run-1", Date: "2025-11-24", Action: "delete", Project: "21", Task: "5", Hours: 9, Status: StatusFailed, Error: "ledger locked"},
			}},
			{Run: secondRun, Operations: []Operation{
				{RunID: "run-2", Date: "2025-12-01", Action: "add", Project: "21", Task: "5", Hours: 9, Status: StatusOK},
			}},
		}

		out, err := NewCsvRenderer().RenderRuns(exports)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "run,period,date,action,project,task,hours,status,error", lines[0])
		assert.Equal(t, "run-1,2025-11,2025-11-24,add,14,13,2.25,ok,", lines[1])
		assert.Equal(t, "run-1,2025-11,2025-11-24,delete,21,5,9,failed,ledger locked", lines[2])
		assert.Equal(t, "run-2,2025-12-01,2025-12-01,add,21,5,9,ok,", lines[3])
	})

	t.Run("no operations yields just the header", func(t *testing.T) {
		out, err := NewCsvRenderer().RenderRuns([]RunExport{{Run: firstRun}})

		require.NoError(t, err)
		assert.Equal(t, "run,period,date,action,project,task,hours,status,error", strings.TrimSpace(out))
	})
}
