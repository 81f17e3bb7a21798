package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorlink/internal/model"
)

func filterDoc(id, fileName, categoryName string, status model.DocumentStatus, createdAt time.Time) model.Document {
	return model.Document{
		ID:           id,
		FileName:     fileName,
		CategoryName: categoryName,
		Status:       status,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestApply_DefaultCriteriaIsIdentity(t *testing.T) {
	in := []model.Document{
		filterDoc("a", "Report.pdf", "Thesis", model.StatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("b", "Log.pdf", "", model.StatusApproved, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("c", "notes.txt", "Essay", model.StatusRejected, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, in, Apply(in, DefaultCriteria()))
	assert.Equal(t, in, Apply(in, Criteria{}))
}

func TestApply_Idempotent(t *testing.T) {
	in := []model.Document{
		filterDoc("a", "Report.pdf", "Thesis", model.StatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("b", "Log.pdf", "", model.StatusApproved, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("c", "report_final.pdf", "Thesis", model.StatusPending, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	c := Criteria{Query: "report", Status: "pending"}

	once := Apply(in, c)
	twice := Apply(once, c)

	assert.Equal(t, once, twice)
}

func TestApply_PreservesOrder(t *testing.T) {
	in := []model.Document{
		filterDoc("1", "a.pdf", "", model.StatusPending, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("2", "b.pdf", "", model.StatusApproved, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("3", "c.pdf", "", model.StatusPending, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("4", "d.pdf", "", model.StatusRejected, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		filterDoc("5", "e.pdf", "", model.StatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	out := Apply(in, Criteria{Status: "pending"})

	ids := make([]string, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"1", "3", "5"}, ids)
}

func TestApply_StatusScenario(t *testing.T) {
	a := filterDoc("a", "Report.pdf", "", model.StatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := filterDoc("b", "Log.pdf", "", model.StatusApproved, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	out := Apply([]model.Document{a, b}, Criteria{Status: "approved"})

	assert.Equal(t, []model.Document{b}, out)
}

func TestApply_QueryMatchesCaseInsensitive(t *testing.T) {
	in := []model.Document{
		filterDoc("a", "Report.pdf", "", model.StatusPending, time.Now()),
		filterDoc("b", "log.txt", "", model.StatusPending, time.Now()),
	}

	out := Apply(in, Criteria{Query: "report"})
	require.Len(t, out, 1)
	assert.Equal(t, "Report.pdf", out[0].FileName)

	out = Apply(in, Criteria{Query: "  \t "})
	assert.Len(t, out, 2, "whitespace-only query matches everything")

	out = Apply(in, Criteria{Query: "RePoRt.PDF"})
	require.Len(t, out, 1)
}

func TestApply_CategoryByName(t *testing.T) {
	in := []model.Document{
		filterDoc("a", "a.pdf", "Thesis", model.StatusPending, time.Now()),
		filterDoc("b", "b.pdf", "Essay", model.StatusPending, time.Now()),
		filterDoc("c", "c.pdf", "", model.StatusPending, time.Now()),
	}

	out := Apply(in, Criteria{Category: "Thesis"})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)

	out = Apply(in, Criteria{Category: All})
	assert.Len(t, out, 3)

	// Uncategorized documents never match a specific category.
	out = Apply(in, Criteria{Category: "Missing"})
	assert.Empty(t, out)
}

func TestApply_DateRange(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	in := []model.Document{
		filterDoc("jan", "a.pdf", "", model.StatusPending, jan),
		filterDoc("feb", "b.pdf", "", model.StatusPending, feb),
		filterDoc("mar", "c.pdf", "", model.StatusPending, mar),
	}

	t.Run("inclusive bounds", func(t *testing.T) {
		out := Apply(in, Criteria{From: &jan, To: &feb})
		require.Len(t, out, 2)
		assert.Equal(t, "jan", out[0].ID)
		assert.Equal(t, "feb", out[1].ID)
	})

	t.Run("lower bound only", func(t *testing.T) {
		out := Apply(in, Criteria{From: &feb})
		require.Len(t, out, 2)
		assert.Equal(t, "feb", out[0].ID)
	})

	t.Run("upper bound only", func(t *testing.T) {
		out := Apply(in, Criteria{To: &jan})
		require.Len(t, out, 1)
		assert.Equal(t, "jan", out[0].ID)
	})

	t.Run("inverted range matches nothing", func(t *testing.T) {
		out := Apply(in, Criteria{From: &mar, To: &jan})
		assert.Empty(t, out)
	})
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := []model.Document{
		filterDoc("a", "a.pdf", "", model.StatusPending, time.Now()),
		filterDoc("b", "b.pdf", "", model.StatusApproved, time.Now()),
	}
	want := append([]model.Document(nil), in...)

	out := Apply(in, Criteria{Status: "pending"})
	require.Len(t, out, 1)
	out[0].FileName = "mutated.pdf"

	assert.Equal(t, want, in)
}
