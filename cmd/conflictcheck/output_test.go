package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/professional-hubs/conflicts/internal/model"
)

func sampleReport() model.ConflictReport {
	return model.ConflictReport{
		SearchTerm:   "Juan Garcia",
		TotalMatches: 2,
		Matches: []model.ConflictMatch{
			{ClientID: 1, ClientName: "Juan García", MatterID: 10, MatterName: "Divorcio", MatterStatus: model.MatterStatusClosed,
				MatchKind: model.MatchKindClientPerson, Score: 100, Confidence: model.ConfidenceHigh, MatchedField: "existing client (person)"},
			{ClientID: 2, ClientName: "Banco Central", MatterID: 11, MatterName: "Cobro", MatterStatus: model.MatterStatusActive,
				MatchKind: model.MatchKindRelatedParty, RelationType: model.RelationDefendant, Score: 75, Confidence: model.ConfidenceMedium,
				MatchedField: "related party (DEFENDANT: Juan Garcés)"},
		},
		Message: "Found 2 potential conflict(s): 1 high confidence, 1 medium confidence",
	}
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, sampleReport(), "json"))

	var got model.ConflictReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestWriteReportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, sampleReport(), "yaml"))
	assert.Contains(t, buf.String(), "similarity_score: 100")
	assert.Contains(t, buf.String(), "relation_type: DEFENDANT")

	var got model.ConflictReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestWriteReportText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, sampleReport(), "text"))
	out := buf.String()
	assert.Contains(t, out, "Search: Juan Garcia")
	assert.Contains(t, out, "high   100.0")
	assert.Contains(t, out, "medium  75.0")
	assert.Contains(t, out, `matter 10 "Divorcio" [CLOSED]`)

	buf.Reset()
	require.NoError(t, writeReport(&buf, model.ConflictReport{SearchTerm: "Zeta", Message: "No conflicts of interest found"}, "text"))
	assert.Contains(t, buf.String(), "No conflicts of interest found")
}

func TestWriteReportUnknownFormat(t *testing.T) {
	assert.Error(t, writeReport(&bytes.Buffer{}, sampleReport(), "xml"))
	assert.Error(t, checkFormat("csv"))
	assert.NoError(t, checkFormat("text"))
}
