package conflicts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/professional-hubs/conflicts/internal/model"
)

func TestDedupe_KeepsHighestScorePerMatter(t *testing.T) {
	in := []model.ConflictMatch{
		{MatterID: 1, Score: 82, MatchKind: model.MatchKindClientPerson},
		{MatterID: 2, Score: 75},
		{MatterID: 1, Score: 95, MatchKind: model.MatchKindRelatedParty},
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].MatterID)
	assert.Equal(t, 95.0, out[0].Score)
	assert.Equal(t, model.MatchKindRelatedParty, out[0].MatchKind)
	assert.Equal(t, int64(2), out[1].MatterID)
}

func TestDedupe_TieKeepsFirstSeen(t *testing.T) {
	in := []model.ConflictMatch{
		{MatterID: 7, Score: 90, MatchKind: model.MatchKindClientPerson},
		{MatterID: 7, Score: 90, MatchKind: model.MatchKindRelatedParty},
	}
	out := Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, model.MatchKindClientPerson, out[0].MatchKind)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
	assert.Empty(t, Dedupe([]model.ConflictMatch{}))
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	in := []model.ConflictMatch{{MatterID: 1, Score: 70}, {MatterID: 1, Score: 99}}
	_ = Dedupe(in)
	assert.Equal(t, 70.0, in[0].Score)
}
