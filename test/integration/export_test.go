//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/pulse/internal/core/department"
	"github.com/agenthands/pulse/internal/driver"
	"github.com/agenthands/pulse/internal/model"
)

// Exercises the exporter against a live Memgraph. Run with:
//
//	MEMGRAPH_URI=bolt://localhost:7687 go test -tags=integration ./test/integration/
func TestExportRoundTrip(t *testing.T) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	user := os.Getenv("MEMGRAPH_USER")
	pwd := os.Getenv("MEMGRAPH_PASSWORD")

	d, err := driver.NewMemgraphDriver(uri, user, pwd, nil)
	require.NoError(t, err)
	defer d.Close(context.Background())
	require.NoError(t, d.BuildIndices(context.Background()))

	reg := model.NewRegistry()
	reg.Add(&model.Person{ID: "it_p1", Name: "Ana", Department: "IT Sales"})
	reg.Add(&model.Person{ID: "it_p2", Name: "Noa", Department: "IT Engineering"})

	ts := time.Now().UTC()
	activities := []model.Activity{
		{ID: "it_a1", Type: model.ActivityMeeting, Timestamp: ts, ParticipantIDs: []string{"it_p1", "it_p2"}},
		{ID: "it_a2", Type: model.ActivityEmail, Timestamp: ts.Add(time.Hour), ParticipantIDs: []string{"it_p1", "it_p2"}},
	}

	a := department.NewAnalyzer(department.Config{MinInteractionCount: 1}, nil)
	report, err := a.Analyze(activities, reg)
	require.NoError(t, err)

	e := driver.NewExporter(d, nil)
	require.NoError(t, e.ExportDepartments(context.Background(), report, reg))

	result, err := d.ExecuteQuery(context.Background(), driver.GetDepartmentGraphQuery, nil)
	require.NoError(t, err)

	found := false
	for _, record := range result.Records {
		source, _ := record.Get("source")
		target, _ := record.Get("target")
		if source == "IT Engineering" && target == "IT Sales" {
			weight, _ := record.Get("weight")
			assert.EqualValues(t, 2, weight)
			found = true
		}
	}
	assert.True(t, found, "exported edge should be queryable")
}
