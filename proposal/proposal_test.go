package proposal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ContainsHeadingAndFields(t *testing.T) {
	doc := Generate(Requirements{
		ClientName:  "Robin",
		ProjectType: "e-commerce",
		Budget:      "$50,000",
		Timeline:    "3 months",
	}, "")

	assert.True(t, strings.HasPrefix(doc, Heading))
	assert.Contains(t, doc, "Prepared for: Robin")
	assert.Contains(t, doc, "Project type: e-commerce")
	assert.Contains(t, doc, "$50,000")
	assert.Contains(t, doc, "3 months")
	assert.NotContains(t, doc, "Revision notes")
}

func TestGenerate_DefaultsForMissingFields(t *testing.T) {
	doc := Generate(Requirements{}, "")

	assert.Contains(t, doc, "Prepared for: the client")
	assert.Contains(t, doc, "Project type: custom software")
	assert.Contains(t, doc, NotSpecified)
}

func TestGenerate_FoldsFeedback(t *testing.T) {
	doc := Generate(Requirements{ClientName: "Robin"}, "add a maintenance section")
	assert.Contains(t, doc, "Revision notes addressed: add a maintenance section")
}

func TestRequestsRevision(t *testing.T) {
	assert.True(t, RequestsRevision("Please revise the budget section"))
	assert.True(t, RequestsRevision("NOT APPROVED, rework the scope"))
	assert.False(t, RequestsRevision("Looks good, ship it"))
	assert.False(t, RequestsRevision(""))
}

func TestReviewWorkflow_ApprovesCleanDraft(t *testing.T) {
	w := NewReviewWorkflow(func(_ context.Context, draft string) (string, error) {
		return "approved", nil
	}, nil)

	out, err := w.Run(context.Background(), Requirements{ClientName: "Robin"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Revisions)
	assert.False(t, out.Caveats)
	assert.Contains(t, out.Proposal, "Robin")
}

func TestReviewWorkflow_RevisesUntilApproval(t *testing.T) {
	rounds := 0
	w := NewReviewWorkflow(func(_ context.Context, draft string) (string, error) {
		rounds++
		if rounds <= 2 {
			return "please revise the timeline", nil
		}
		return "approved", nil
	}, nil)

	out, err := w.Run(context.Background(), Requirements{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Revisions)
	assert.False(t, out.Caveats)
	// The approved draft reflects the last feedback round.
	assert.Contains(t, out.Proposal, "please revise the timeline")
}

func TestReviewWorkflow_CapExhaustionApprovesWithCaveats(t *testing.T) {
	rounds := 0
	w := NewReviewWorkflow(func(_ context.Context, draft string) (string, error) {
		rounds++
		return "still needs revision", nil
	}, nil)

	out, err := w.Run(context.Background(), Requirements{})
	require.NoError(t, err)
	assert.True(t, out.Caveats)
	assert.Equal(t, DefaultMaxRevisions, out.Revisions)
	assert.Equal(t, "still needs revision", out.Feedback)
	assert.NotEmpty(t, out.Proposal)
	// Reviewer ran once per round plus the exhausted round.
	assert.Equal(t, DefaultMaxRevisions+1, rounds)
}

func TestReviewWorkflow_ReviewerErrorAborts(t *testing.T) {
	w := NewReviewWorkflow(func(_ context.Context, draft string) (string, error) {
		return "", errors.New("reviewer unavailable")
	}, nil)

	_, err := w.Run(context.Background(), Requirements{})
	assert.Error(t, err)
}
